package models

import (
	"time"
)

// Shop 店铺表
type Shop struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`                     // 店主用户ID
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`  // 店铺名称
	FeedURL   string    `gorm:"type:varchar(500);default:''" json:"feed_url"`       // 数据源地址
	CreatedAt time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                         // 更新时间

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName 指定表名
func (Shop) TableName() string {
	return "shops"
}
