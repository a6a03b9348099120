package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/orders-next/internal/models"
)

const defaultSyncReportTTL = 24 * time.Hour

func syncReportKey(shopID uint) string {
	return fmt.Sprintf("sync:report:shop:%d", shopID)
}

// GetSyncReport 读取店铺最近一次同步结果
func GetSyncReport(ctx context.Context, shopID uint) (*models.FeedSyncRun, bool, error) {
	if shopID == 0 {
		return nil, false, nil
	}
	var run models.FeedSyncRun
	hit, err := GetJSON(ctx, syncReportKey(shopID), &run)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &run, true, nil
}

// SetSyncReport 缓存店铺最近一次同步结果
func SetSyncReport(ctx context.Context, run *models.FeedSyncRun, ttl time.Duration) error {
	if run == nil || run.ShopID == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSyncReportTTL
	}
	return SetJSON(ctx, syncReportKey(run.ShopID), run, ttl)
}

// DelSyncReport 删除店铺同步结果缓存
func DelSyncReport(ctx context.Context, shopID uint) error {
	if shopID == 0 {
		return nil
	}
	return Del(ctx, syncReportKey(shopID))
}
