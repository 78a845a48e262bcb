package handler

import (
	"net/http"

	"github.com/devmojahid/restu-food-sub005/internal/apperror"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewHTTPHandler(uc product.UseCase, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, logger: log}
}

func (h *HTTPHandler) Register(r gin.IRouter) {
	g := r.Group("/products")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)

	g.PUT("/:id/attributes", h.setAttributes)
	g.GET("/:id/variations", h.listVariations)
	g.POST("/:id/variations", h.addVariation)
	g.PATCH("/:id/variations", h.bulkEdit)
	g.DELETE("/:id/variations", h.deleteVariations)
	g.POST("/:id/variations/regenerate", h.regenerate)
}

type listQuery struct {
	CategoryID string `form:"category_id"`
	IsActive   *bool  `form:"is_active"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type variationQuery struct {
	Search string `form:"search"`
	SortBy string `form:"sort_by"`
	Desc   bool   `form:"desc"`
}

func (h *HTTPHandler) create(c *gin.Context) {
	var in dto.CreateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.CreateProduct(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *HTTPHandler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	filters := &dto.ProductFilters{
		RestaurantID: auth.GetRestaurantID(c.Request.Context()),
		CategoryID:   q.CategoryID,
		IsActive:     q.IsActive,
		SearchQuery:  q.Search,
		SortBy:       q.SortBy,
		SortOrder:    q.SortOrder,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

func (h *HTTPHandler) get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), auth.GetRestaurantID(c.Request.Context()), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) update(c *gin.Context) {
	var in dto.UpdateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.UpdateProduct(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), auth.GetRestaurantID(c.Request.Context()), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) setAttributes(c *gin.Context) {
	var in dto.SetAttributesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ProductID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.SetAttributes(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) listVariations(c *gin.Context) {
	var q variationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	list, err := h.uc.ListVariations(c.Request.Context(), &dto.VariationQuery{
		RestaurantID: auth.GetRestaurantID(c.Request.Context()),
		ProductID:    c.Param("id"),
		Search:       q.Search,
		SortBy:       q.SortBy,
		Desc:         q.Desc,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variations": list, "total": len(list)})
}

func (h *HTTPHandler) addVariation(c *gin.Context) {
	var in dto.AddVariationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ProductID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.AddVariation(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *HTTPHandler) bulkEdit(c *gin.Context) {
	var in dto.BulkEditInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ProductID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.BulkEditVariations(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) deleteVariations(c *gin.Context) {
	var in dto.DeleteVariationsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.BadRequest(c, err)
		return
	}
	in.ProductID = c.Param("id")
	in.RestaurantID = auth.GetRestaurantID(c.Request.Context())

	p, err := h.uc.DeleteVariations(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) regenerate(c *gin.Context) {
	p, err := h.uc.RegenerateVariations(c.Request.Context(), auth.GetRestaurantID(c.Request.Context()), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	if apperror.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("product request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	apperror.RespondError(c, err)
}
