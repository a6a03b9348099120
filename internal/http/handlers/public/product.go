package public

import (
	"strconv"

	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，支持 category_id / shop_id / search 过滤
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	shopID, _ := strconv.ParseUint(c.Query("shop_id"), 10, 64)

	products, total, err := h.ProductService.ListProducts(c.Request.Context(), service.ProductListInput{
		CategoryID: uint(categoryID),
		ShopID:     uint(shopID),
		Search:     c.Query("search"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// ListShopCategories 店铺已同步的分类
func (h *Handler) ListShopCategories(c *gin.Context) {
	shopID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	categories, err := h.ProductService.ListShopCategories(c.Request.Context(), shopID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, categories)
}
