package service

import (
	"context"

	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/queue"
)

// CatalogSyncDispatcher 投递店铺目录同步
type CatalogSyncDispatcher interface {
	Dispatch(ctx context.Context, shopID uint, trigger string) error
}

// ShopSyncRunner 在当前进程内执行一次同步
type ShopSyncRunner interface {
	RunShopSync(ctx context.Context, shopID uint, trigger string) (*models.FeedSyncRun, error)
}

// SyncDispatcher 队列可用时投递异步任务，否则在后台协程中直接执行
type SyncDispatcher struct {
	queueClient *queue.Client
	runner      ShopSyncRunner
}

// NewSyncDispatcher 创建同步投递器
func NewSyncDispatcher(queueClient *queue.Client, runner ShopSyncRunner) *SyncDispatcher {
	return &SyncDispatcher{queueClient: queueClient, runner: runner}
}

// Dispatch 投递店铺同步，调用方不等待同步结束
func (d *SyncDispatcher) Dispatch(ctx context.Context, shopID uint, trigger string) error {
	if shopID == 0 {
		return ErrShopNotFound
	}
	if d.queueClient != nil && d.queueClient.Enabled() {
		err := d.queueClient.EnqueueCatalogSync(queue.CatalogSyncPayload{ShopID: shopID, Trigger: trigger})
		if err != nil {
			logger.Warnw("catalog_sync_enqueue_failed", "shop_id", shopID, "trigger", trigger, "error", err)
			return err
		}
		logger.Infow("catalog_sync_enqueued", "shop_id", shopID, "trigger", trigger)
		return nil
	}
	if d.runner == nil {
		logger.Warnw("catalog_sync_dispatch_skipped", "shop_id", shopID, "trigger", trigger)
		return nil
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("catalog_sync_inline_panic", "shop_id", shopID, "panic", r)
			}
		}()
		if _, err := d.runner.RunShopSync(bg, shopID, trigger); err != nil {
			logger.Warnw("catalog_sync_inline_failed", "shop_id", shopID, "trigger", trigger, "error", err)
		}
	}()
	return nil
}
