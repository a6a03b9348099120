package repository

import (
	"context"
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// FeedSyncRunRepository 同步记录数据访问接口
type FeedSyncRunRepository interface {
	Create(ctx context.Context, run *models.FeedSyncRun) error
	Save(ctx context.Context, run *models.FeedSyncRun) error
	GetByRunID(ctx context.Context, runID string) (*models.FeedSyncRun, error)
	GetLatestFinished(ctx context.Context, shopID uint) (*models.FeedSyncRun, error)
	ListByShop(ctx context.Context, shopID uint, limit int) ([]models.FeedSyncRun, error)
}

// GormFeedSyncRunRepository GORM 实现
type GormFeedSyncRunRepository struct {
	db *gorm.DB
}

// NewFeedSyncRunRepository 创建同步记录仓库
func NewFeedSyncRunRepository(db *gorm.DB) *GormFeedSyncRunRepository {
	return &GormFeedSyncRunRepository{db: db}
}

// Create 创建同步记录
func (r *GormFeedSyncRunRepository) Create(ctx context.Context, run *models.FeedSyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Save 保存同步结果
func (r *GormFeedSyncRunRepository) Save(ctx context.Context, run *models.FeedSyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// GetByRunID 根据运行标识获取记录
func (r *GormFeedSyncRunRepository) GetByRunID(ctx context.Context, runID string) (*models.FeedSyncRun, error) {
	var run models.FeedSyncRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// GetLatestFinished 获取店铺最近一次已结束的同步记录
func (r *GormFeedSyncRunRepository) GetLatestFinished(ctx context.Context, shopID uint) (*models.FeedSyncRun, error) {
	var run models.FeedSyncRun
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND finished_at IS NOT NULL", shopID).
		Order("finished_at desc, id desc").
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// ListByShop 获取店铺最近的同步记录
func (r *GormFeedSyncRunRepository) ListByShop(ctx context.Context, shopID uint, limit int) ([]models.FeedSyncRun, error) {
	var runs []models.FeedSyncRun
	query := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("id desc")
	err := applyRecentLimit(query, limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
