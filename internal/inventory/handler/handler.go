package handler

import (
	"net/http"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/apperror"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/inventory"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHeader names the operator recorded as created_by on manual movements.
const UserHeader = "X-User-ID"

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r gin.IRouter) {
	g := r.Group("/inventory")
	g.POST("/adjust", h.adjust)
	g.GET("/movements", h.movements)
	g.GET("/low-stock", h.lowStock)
}

type movementQuery struct {
	ProductID    string     `form:"product_id"`
	VariationID  string     `form:"variation_id"`
	MovementType string     `form:"movement_type"`
	StartDate    *time.Time `form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate      *time.Time `form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
}

type lowStockQuery struct {
	Threshold int `form:"threshold"`
	Page      int `form:"page"`
	PageSize  int `form:"page_size"`
}

func (h *InventoryHandler) adjust(c *gin.Context) {
	var in dto.AdjustStockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())
	in.UserID = c.GetHeader(UserHeader)

	v, err := h.uc.AdjustStock(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variation": v})
}

func (h *InventoryHandler) movements(c *gin.Context) {
	var q movementQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.BadRequest(c, err)
		return
	}

	list, total, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		RestaurantID: auth.GetRestaurantID(c.Request.Context()),
		ProductID:    q.ProductID,
		VariationID:  q.VariationID,
		MovementType: q.MovementType,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": list, "total": total})
}

func (h *InventoryHandler) lowStock(c *gin.Context) {
	var q lowStockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.BadRequest(c, err)
		return
	}

	list, total, err := h.uc.ListLowStock(c.Request.Context(), &dto.LowStockFilters{
		RestaurantID: auth.GetRestaurantID(c.Request.Context()),
		Threshold:    q.Threshold,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variations": list, "total": total})
}

func (h *InventoryHandler) fail(c *gin.Context, err error) {
	if apperror.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("inventory request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	apperror.RespondError(c, err)
}
