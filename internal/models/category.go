package models

import (
	"time"
)

// Category 分类表（ID 由供应商数据源提供，不自增）
type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"` // 外部分类ID
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`   // 分类名称
	CreatedAt time.Time `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// ShopCategory 店铺与分类的关联表
type ShopCategory struct {
	ShopID     uint      `gorm:"primaryKey;autoIncrement:false" json:"shop_id"`     // 店铺ID
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false" json:"category_id"` // 分类ID
	CreatedAt  time.Time `json:"created_at"`                                        // 关联时间
}

// TableName 指定表名
func (ShopCategory) TableName() string {
	return "shop_categories"
}
