package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// ShopRepository 店铺数据访问接口
type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	Update(ctx context.Context, shop *models.Shop) error
	GetByID(ctx context.Context, id uint) (*models.Shop, error)
	GetByName(ctx context.Context, name string) (*models.Shop, error)
	GetFirstByOwner(ctx context.Context, ownerID uint) (*models.Shop, error)
	List(ctx context.Context, filter ShopListFilter) ([]models.Shop, int64, error)
	WithTx(tx *gorm.DB) ShopRepository
}

// GormShopRepository GORM 实现
type GormShopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShopRepository) WithTx(tx *gorm.DB) ShopRepository {
	if tx == nil {
		return r
	}
	return &GormShopRepository{db: tx}
}

// Create 创建店铺
func (r *GormShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// Update 更新店铺
func (r *GormShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// GetByID 根据 ID 获取店铺
func (r *GormShopRepository) GetByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// GetByName 根据名称获取店铺
func (r *GormShopRepository) GetByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// GetFirstByOwner 获取用户名下最早创建的店铺
func (r *GormShopRepository) GetFirstByOwner(ctx context.Context, ownerID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// List 店铺列表
func (r *GormShopRepository) List(ctx context.Context, filter ShopListFilter) ([]models.Shop, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Shop{})
	if filter.OwnerID > 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.OnlyWithFeed {
		query = query.Where("feed_url <> ''")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var shops []models.Shop
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id asc").Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}
