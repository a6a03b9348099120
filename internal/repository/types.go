package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	ShopID       uint
	Search       string
	WithListings bool
}

// ShopListFilter 查询店铺列表的过滤条件
type ShopListFilter struct {
	Page         int
	PageSize     int
	OwnerID      uint
	OnlyWithFeed bool
}

// OrderItemListFilter 查询订单项的过滤条件
type OrderItemListFilter struct {
	OrderID uint
	ShopID  uint
}
