package public

import (
	"strconv"

	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateShopRequest 创建店铺请求
type CreateShopRequest struct {
	Name    string `json:"name" binding:"required,max=50"`
	FeedURL string `json:"feed_url" binding:"max=500"`
}

// UpdateShopRequest 更新店铺请求，省略的字段保持不变
type UpdateShopRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=50"`
	FeedURL *string `json:"feed_url" binding:"omitempty,max=500"`
}

// CreateShop 创建店铺，登记数据源时自动投递同步
func (h *Handler) CreateShop(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	shop, err := h.ShopService.CreateShop(c.Request.Context(), service.CreateShopInput{
		OwnerID: uid,
		Name:    req.Name,
		FeedURL: req.FeedURL,
	})
	if err != nil {
		respondShopError(c, err, "error.shop_create_failed")
		return
	}
	response.Success(c, shop)
}

// GetShop 店铺详情
func (h *Handler) GetShop(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	shop, err := h.ShopService.GetShop(c.Request.Context(), id)
	if err != nil {
		respondShopError(c, err, "error.shop_fetch_failed")
		return
	}
	response.Success(c, shop)
}

// UpdateShop 更新店铺，仅店主可操作
func (h *Handler) UpdateShop(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	shop, err := h.ShopService.UpdateShop(c.Request.Context(), id, uid, service.UpdateShopInput{
		Name:    req.Name,
		FeedURL: req.FeedURL,
	})
	if err != nil {
		respondShopError(c, err, "error.shop_update_failed")
		return
	}
	response.Success(c, shop)
}

// RequestShopSync 店主手动触发目录同步
func (h *Handler) RequestShopSync(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.ShopService.RequestSync(c.Request.Context(), id, uid); err != nil {
		respondShopError(c, err, "error.sync_request_failed")
		return
	}
	response.Accepted(c, gin.H{"shop_id": id})
}

// GetShopSyncReport 最近一次同步结果（含诊断）
func (h *Handler) GetShopSyncReport(c *gin.Context) {
	shopID, ok := h.ownedShopID(c)
	if !ok {
		return
	}
	run, err := h.FeedSyncService.LatestReport(c.Request.Context(), shopID)
	if err != nil {
		respondSyncRunError(c, err)
		return
	}
	response.Success(c, run)
}

// ListShopSyncRuns 最近的同步记录
func (h *Handler) ListShopSyncRuns(c *gin.Context) {
	shopID, ok := h.ownedShopID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	runs, err := h.FeedSyncService.ListRuns(c.Request.Context(), shopID, limit)
	if err != nil {
		respondSyncRunError(c, err)
		return
	}
	response.Success(c, runs)
}

// ownedShopID 解析路径中的店铺 ID 并校验调用者为店主
func (h *Handler) ownedShopID(c *gin.Context) (uint, bool) {
	uid, ok := getUserID(c)
	if !ok {
		return 0, false
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	shop, err := h.ShopService.GetOwnedShop(c.Request.Context(), id, uid)
	if err != nil {
		respondSyncRunError(c, err)
		return 0, false
	}
	return shop.ID, true
}
