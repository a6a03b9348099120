package public

import (
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/models"

	"github.com/gin-gonic/gin"
)

// OrderLineRequest 订单项请求，POST 时 quantity 为增量，PUT 时为目标数量
type OrderLineRequest struct {
	ShopID    uint `json:"shop" binding:"required"`
	ProductID uint `json:"product" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// OrderLinesView 订单项列表响应
type OrderLinesView struct {
	OrderID uint               `json:"order_id,omitempty"`
	ShopID  uint               `json:"shop_id,omitempty"`
	Items   []models.OrderItem `json:"items"`
}

// GetOrderLines 买家查看自己 open 订单的订单项；店铺用户查看涉及本店的订单项
func (h *Handler) GetOrderLines(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if getUserType(c) == constants.UserTypeShop {
		shop, err := h.ShopService.GetOwnerShop(ctx, uid)
		if err != nil {
			respondOrderFetchError(c, err)
			return
		}
		items, err := h.OrderLineService.ListLinesForShopView(ctx, shop.ID)
		if err != nil {
			respondOrderFetchError(c, err)
			return
		}
		response.Success(c, OrderLinesView{ShopID: shop.ID, Items: nonNilItems(items)})
		return
	}

	order, err := h.OrderLineService.OpenOrder(ctx, uid)
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	items, err := h.OrderLineService.ListLines(ctx, order.ID)
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.Success(c, OrderLinesView{OrderID: order.ID, Items: nonNilItems(items)})
}

// UpsertOrderLine 将数量增量合并到调用者 open 订单的订单项
func (h *Handler) UpsertOrderLine(c *gin.Context) {
	h.writeOrderLine(c, false)
}

// ReplaceOrderLine 替换调用者 open 订单中已存在订单项的数量
func (h *Handler) ReplaceOrderLine(c *gin.Context) {
	h.writeOrderLine(c, true)
}

func (h *Handler) writeOrderLine(c *gin.Context, replace bool) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	ctx := c.Request.Context()
	order, err := h.OrderLineService.OpenOrder(ctx, uid)
	if err != nil {
		respondOrderLineError(c, err)
		return
	}

	var item *models.OrderItem
	if replace {
		item, err = h.OrderLineService.ReplaceLine(ctx, order.ID, req.ShopID, req.ProductID, req.Quantity)
	} else {
		item, err = h.OrderLineService.UpsertLine(ctx, order.ID, req.ShopID, req.ProductID, req.Quantity)
	}
	if err != nil {
		respondOrderLineError(c, err)
		return
	}
	response.Success(c, item)
}

func nonNilItems(items []models.OrderItem) []models.OrderItem {
	if items == nil {
		return []models.OrderItem{}
	}
	return items
}
