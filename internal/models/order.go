package models

import (
	"time"
)

// Order 订单表
// OpenUserID 仅在订单处于 open 状态时等于 UserID，用唯一索引保证每个用户最多一个 open 订单
type Order struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID     uint      `gorm:"index;not null" json:"user_id"`                 // 用户ID
	OpenUserID *uint     `gorm:"uniqueIndex" json:"-"`                          // open 订单归属用户
	Status     string    `gorm:"type:varchar(32);index;not null" json:"status"` // 订单状态
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                       // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
