package models

import (
	"time"
)

// User 用户表
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`                     // 邮箱
	Name      string    `gorm:"type:varchar(150);default:''" json:"name"`              // 用户名
	Company   string    `gorm:"type:varchar(40);default:''" json:"company"`            // 公司
	Position  string    `gorm:"type:varchar(40);default:''" json:"position"`           // 职位
	Type      string    `gorm:"type:varchar(10);not null;default:'buyer'" json:"type"` // 用户类型（shop/buyer）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                               // 更新时间

	Contacts []Contact `gorm:"foreignKey:UserID" json:"contacts,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Contact 用户联系方式
type Contact struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Value     string    `gorm:"type:varchar(100);not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}
