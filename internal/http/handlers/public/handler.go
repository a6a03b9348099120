package public

import "github.com/orders-next/internal/provider"

// Handler 前台接口处理器入口（商品、店铺、订单）
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
