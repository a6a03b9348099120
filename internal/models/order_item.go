package models

import (
	"time"
)

// OrderItem 订单项表，(order_id, shop_id, product_id) 唯一且数量恒为正
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                                            // 主键
	OrderID   uint      `gorm:"not null;uniqueIndex:idx_order_items_line" json:"order_id"`                                       // 订单ID
	ShopID    uint      `gorm:"not null;uniqueIndex:idx_order_items_line;index" json:"shop_id"`                                  // 店铺ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_order_items_line;index" json:"product_id"`                               // 商品ID
	Quantity  int       `gorm:"not null;check:chk_order_items_quantity,quantity > 0 AND quantity <= 2147483647" json:"quantity"` // 数量，上限见 constants.MaxLineQuantity
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                                         // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                                                         // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
