package queue

import (
	"encoding/json"
	"fmt"

	"github.com/orders-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCatalogSync 店铺目录同步任务
	TaskCatalogSync = constants.TaskCatalogSync
)

// CatalogSyncPayload 目录同步任务载荷
type CatalogSyncPayload struct {
	ShopID  uint   `json:"shop_id"`
	Trigger string `json:"trigger"`
}

// NewCatalogSyncTask 创建目录同步任务
func NewCatalogSyncTask(payload CatalogSyncPayload) (*asynq.Task, error) {
	if payload.ShopID == 0 {
		return nil, fmt.Errorf("catalog sync payload requires shop_id")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogSync, body), nil
}

// ParseCatalogSyncPayload 解析目录同步任务载荷
func ParseCatalogSyncPayload(body []byte) (CatalogSyncPayload, error) {
	var payload CatalogSyncPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.ShopID == 0 {
		return payload, fmt.Errorf("catalog sync payload requires shop_id")
	}
	return payload, nil
}
