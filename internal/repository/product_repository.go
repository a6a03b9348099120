package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Upsert(ctx context.Context, product *models.Product, assignCategory bool) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetDetail(ctx context.Context, id uint) (*models.Product, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter ProductListFilter) ([]models.Product, int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// Upsert 按外部 ID 写入商品，已存在时刷新型号
// assignCategory 为 false 时不覆盖已有商品的分类
func (r *GormProductRepository) Upsert(ctx context.Context, product *models.Product, assignCategory bool) error {
	if product == nil {
		return nil
	}
	columns := []string{"model", "updated_at"}
	if assignCategory {
		columns = append(columns, "category_id")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(product).Error
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetDetail 获取商品详情（含分类、店铺报价与参数）
func (r *GormProductRepository) GetDetail(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Infos", func(db *gorm.DB) *gorm.DB { return db.Order("product_infos.shop_id asc") }).
		Preload("Infos.Shop").
		Preload("Infos.Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("product_parameters.parameter_id asc") }).
		Preload("Infos.Parameters.Parameter").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Exists 判断商品是否存在
func (r *GormProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 商品列表
func (r *GormProductRepository) List(ctx context.Context, filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID > 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.ShopID > 0 {
		query = query.Where("EXISTS (SELECT 1 FROM product_infos pi WHERE pi.product_id = products.id AND pi.shop_id = ?)", filter.ShopID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where(
			"products.model "+operator+" ? OR EXISTS (SELECT 1 FROM product_infos pi WHERE pi.product_id = products.id AND pi.name "+operator+" ?)",
			like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithListings {
		query = query.Preload("Infos", func(db *gorm.DB) *gorm.DB { return db.Order("product_infos.shop_id asc") })
	}
	if err := query.Preload("Category").Order("products.id asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
