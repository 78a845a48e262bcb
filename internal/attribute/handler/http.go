package handler

import (
	"net/http"

	"github.com/devmojahid/restu-food-sub005/internal/apperror"
	"github.com/devmojahid/restu-food-sub005/internal/attribute"
	"github.com/devmojahid/restu-food-sub005/internal/attribute/dto"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttributeHandler struct {
	uc     attribute.UseCase
	logger logger.ZapLogger
}

func NewAttributeHandler(uc attribute.UseCase, log logger.ZapLogger) *AttributeHandler {
	return &AttributeHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AttributeHandler) Register(r gin.IRouter) {
	g := r.Group("/attributes")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type listQuery struct {
	IsActive *bool `form:"is_active"`
	Page     int   `form:"page"`
	PageSize int   `form:"page_size"`
}

func (h *AttributeHandler) create(c *gin.Context) {
	var in dto.CreateAttributeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	attr, err := h.uc.CreateAttribute(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attribute": attr})
}

func (h *AttributeHandler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.BadRequest(c, err)
		return
	}

	attrs, total, err := h.uc.ListAttributes(c.Request.Context(), &dto.AttributeFilters{
		RestaurantID: auth.GetRestaurantID(c.Request.Context()),
		IsActive:     q.IsActive,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attributes": attrs, "total": total})
}

func (h *AttributeHandler) get(c *gin.Context) {
	attr, err := h.uc.GetAttribute(c.Request.Context(), auth.GetRestaurantID(c.Request.Context()), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attribute": attr})
}

func (h *AttributeHandler) update(c *gin.Context) {
	var in dto.UpdateAttributeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	attr, err := h.uc.UpdateAttribute(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attribute": attr})
}

func (h *AttributeHandler) delete(c *gin.Context) {
	if err := h.uc.DeleteAttribute(c.Request.Context(), auth.GetRestaurantID(c.Request.Context()), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AttributeHandler) fail(c *gin.Context, err error) {
	if apperror.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("attribute request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	apperror.RespondError(c, err)
}
