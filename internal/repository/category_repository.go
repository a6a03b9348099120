package repository

import (
	"context"
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	EnsureCategory(ctx context.Context, id uint, name string) (*models.Category, error)
	LinkShop(ctx context.Context, shopID, categoryID uint) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	ListByShop(ctx context.Context, shopID uint) ([]models.Category, error)
	WithTx(tx *gorm.DB) CategoryRepository
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// EnsureCategory 按 ID 创建分类，已存在时保留原名称
func (r *GormCategoryRepository) EnsureCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	category := models.Category{ID: id, Name: name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&category).Error; err != nil {
		return nil, err
	}
	var stored models.Category
	if err := r.db.WithContext(ctx).First(&stored, id).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// LinkShop 关联店铺与分类（重复关联无副作用）
func (r *GormCategoryRepository) LinkShop(ctx context.Context, shopID, categoryID uint) error {
	link := models.ShopCategory{ShopID: shopID, CategoryID: categoryID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "category_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ListByShop 获取店铺经营的分类
func (r *GormCategoryRepository) ListByShop(ctx context.Context, shopID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN shop_categories ON shop_categories.category_id = categories.id").
		Where("shop_categories.shop_id = ?", shopID).
		Order("categories.id asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
