package worker

import (
	"context"
	"fmt"

	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCatalogSync, c.handleCatalogSync)
}

// handleCatalogSync 执行店铺目录同步；数据源缺失或格式错误不再重试
func (c *Consumer) handleCatalogSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_catalog_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCatalogSyncPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_catalog_sync_invalid_payload", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.FeedSyncService == nil {
		logger.Warnw("worker_catalog_sync_skip_service_nil", "shop_id", payload.ShopID)
		return nil
	}

	run, err := c.FeedSyncService.RunShopSync(ctx, payload.ShopID, payload.Trigger)
	if err == nil {
		return nil
	}
	runID := ""
	if run != nil {
		runID = run.RunID
	}
	if service.IsRetryableSyncError(err) {
		logger.Warnw("worker_catalog_sync_retry",
			"shop_id", payload.ShopID,
			"run_id", runID,
			"trigger", payload.Trigger,
			"error", err,
		)
		return err
	}
	logger.Warnw("worker_catalog_sync_skip_retry",
		"shop_id", payload.ShopID,
		"run_id", runID,
		"trigger", payload.Trigger,
		"error", err,
	)
	return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
}
