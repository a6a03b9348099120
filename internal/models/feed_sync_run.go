package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// SyncDiagnostic 同步过程中记录的非致命问题
type SyncDiagnostic struct {
	Kind       string `json:"kind"`
	CategoryID uint   `json:"category_id,omitempty"`
	ProductID  uint   `json:"product_id,omitempty"`
}

// SyncDiagnostics 诊断列表（JSON 存储）
type SyncDiagnostics []SyncDiagnostic

// Value 实现 driver.Valuer 接口
func (d SyncDiagnostics) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (d *SyncDiagnostics) Scan(value interface{}) error {
	*d = SyncDiagnostics{}
	if value == nil {
		return nil
	}
	return scanJSON(value, d)
}

// FeedSyncRun 店铺目录同步记录
type FeedSyncRun struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	RunID       string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"run_id"` // 运行标识
	ShopID      uint            `gorm:"index;not null" json:"shop_id"`                       // 店铺ID
	Trigger     string          `gorm:"type:varchar(20);not null" json:"trigger"`            // 触发来源
	Status      string          `gorm:"type:varchar(20);index;not null" json:"status"`       // 运行状态
	Categories  int             `gorm:"not null;default:0" json:"categories"`
	Products    int             `gorm:"not null;default:0" json:"products"`
	Listings    int             `gorm:"not null;default:0" json:"listings"`
	Parameters  int             `gorm:"not null;default:0" json:"parameters"`
	Diagnostics SyncDiagnostics `gorm:"type:json" json:"diagnostics"`
	Error       string          `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time       `gorm:"index" json:"started_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName 指定表名
func (FeedSyncRun) TableName() string {
	return "feed_sync_runs"
}
