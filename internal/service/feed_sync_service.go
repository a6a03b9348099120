package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"github.com/google/uuid"
)

// FeedLoader 读取并解析店铺数据源
type FeedLoader interface {
	Load(ctx context.Context, location string) (*feed.Document, error)
}

// FeedSyncService 店铺数据源同步任务执行器
type FeedSyncService struct {
	shopRepo repository.ShopRepository
	runRepo  repository.FeedSyncRunRepository
	loader   FeedLoader
	catalog  *CatalogSyncService
	cfg      config.SyncConfig
}

// NewFeedSyncService 创建同步任务执行器
func NewFeedSyncService(shopRepo repository.ShopRepository, runRepo repository.FeedSyncRunRepository, loader FeedLoader, catalog *CatalogSyncService, cfg config.SyncConfig) *FeedSyncService {
	return &FeedSyncService{
		shopRepo: shopRepo,
		runRepo:  runRepo,
		loader:   loader,
		catalog:  catalog,
		cfg:      cfg,
	}
}

// RunShopSync 使用店铺登记的数据源地址执行一次同步
func (s *FeedSyncService) RunShopSync(ctx context.Context, shopID uint, trigger string) (*models.FeedSyncRun, error) {
	return s.RunShopSyncFrom(ctx, shopID, "", trigger)
}

// RunShopSyncFrom 执行一次同步，location 为空时使用店铺登记的数据源地址
// 运行记录在失败时同样落库，返回的 error 为本次同步的终止原因
func (s *FeedSyncService) RunShopSyncFrom(ctx context.Context, shopID uint, location, trigger string) (*models.FeedSyncRun, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = strings.TrimSpace(shop.FeedURL)
	}
	if location == "" {
		return nil, ErrShopFeedMissing
	}
	if strings.TrimSpace(trigger) == "" {
		trigger = constants.SyncTriggerManual
	}

	run := &models.FeedSyncRun{
		RunID:       uuid.NewString(),
		ShopID:      shop.ID,
		Trigger:     trigger,
		Status:      constants.SyncRunStatusRunning,
		Diagnostics: models.SyncDiagnostics{},
		StartedAt:   time.Now(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, classifyStoreError(err)
	}
	logger.Infow("catalog_sync_started",
		"shop_id", shop.ID,
		"run_id", run.RunID,
		"trigger", trigger,
		"location", location,
	)

	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	report, syncErr := s.execute(syncCtx, shop, location)
	s.finish(context.WithoutCancel(ctx), run, report, syncErr)
	if syncErr != nil {
		return run, syncErr
	}
	return run, nil
}

func (s *FeedSyncService) execute(ctx context.Context, shop *models.Shop, location string) (*SyncReport, error) {
	doc, err := s.loader.Load(ctx, location)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Join(feed.ErrFeedUnavailable, err)
		}
		return nil, err
	}
	if name := strings.TrimSpace(doc.Shop); name != "" && name != shop.Name {
		logger.Warnw("catalog_sync_shop_name_mismatch",
			"shop_id", shop.ID,
			"shop_name", shop.Name,
			"feed_shop", name,
		)
	}
	return s.catalog.Synchronize(ctx, shop, doc)
}

func (s *FeedSyncService) finish(ctx context.Context, run *models.FeedSyncRun, report *SyncReport, syncErr error) {
	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	if syncErr != nil {
		run.Status = constants.SyncRunStatusFailed
		run.Error = syncErr.Error()
	} else {
		run.Status = constants.SyncRunStatusSucceeded
		run.Categories = report.Categories
		run.Products = report.Products
		run.Listings = report.Listings
		run.Parameters = report.Parameters
		run.Diagnostics = models.SyncDiagnostics(report.Diagnostics)
	}

	if err := s.runRepo.Save(ctx, run); err != nil {
		logger.Errorw("catalog_sync_run_save_failed", "shop_id", run.ShopID, "run_id", run.RunID, "error", err)
	}
	if err := cache.SetSyncReport(ctx, run, s.cfg.ReportCacheTTL()); err != nil {
		logger.Warnw("catalog_sync_report_cache_failed", "shop_id", run.ShopID, "run_id", run.RunID, "error", err)
	}

	if syncErr != nil {
		logger.Errorw("catalog_sync_failed",
			"shop_id", run.ShopID,
			"run_id", run.RunID,
			"trigger", run.Trigger,
			"error", syncErr,
		)
		return
	}
	logger.Infow("catalog_sync_finished",
		"shop_id", run.ShopID,
		"run_id", run.RunID,
		"trigger", run.Trigger,
		"categories", run.Categories,
		"products", run.Products,
		"listings", run.Listings,
		"parameters", run.Parameters,
		"diagnostics", len(run.Diagnostics),
		"duration_ms", finishedAt.Sub(run.StartedAt).Milliseconds(),
	)
}

// LatestReport 获取店铺最近一次已结束的同步结果，优先读缓存
func (s *FeedSyncService) LatestReport(ctx context.Context, shopID uint) (*models.FeedSyncRun, error) {
	if cached, hit, err := cache.GetSyncReport(ctx, shopID); err == nil && hit && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warnw("catalog_sync_report_cache_read_failed", "shop_id", shopID, "error", err)
	}
	run, err := s.runRepo.GetLatestFinished(ctx, shopID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if run == nil {
		return nil, ErrSyncRunNotFound
	}
	if err := cache.SetSyncReport(ctx, run, s.cfg.ReportCacheTTL()); err != nil {
		logger.Warnw("catalog_sync_report_cache_failed", "shop_id", shopID, "error", err)
	}
	return run, nil
}

// ListRuns 获取店铺最近的同步记录
func (s *FeedSyncService) ListRuns(ctx context.Context, shopID uint, limit int) ([]models.FeedSyncRun, error) {
	if limit <= 0 || (s.cfg.RunHistoryLimit > 0 && limit > s.cfg.RunHistoryLimit) {
		limit = s.cfg.RunHistoryLimit
	}
	runs, err := s.runRepo.ListByShop(ctx, shopID, limit)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return runs, nil
}

// IsRetryableSyncError 判断同步失败是否值得重试
func IsRetryableSyncError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, feed.ErrFeedUnavailable)
}
