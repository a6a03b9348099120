package repository

import (
	"context"
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductInfoRepository 店铺报价与参数数据访问接口
type ProductInfoRepository interface {
	UpsertListing(ctx context.Context, info *models.ProductInfo) (*models.ProductInfo, error)
	GetListing(ctx context.Context, productID, shopID uint) (*models.ProductInfo, error)
	EnsureParameter(ctx context.Context, name string) (*models.Parameter, error)
	UpsertParameterValue(ctx context.Context, productInfoID, parameterID uint, value string) error
	ListParameterValues(ctx context.Context, productInfoID uint) ([]models.ProductParameter, error)
	WithTx(tx *gorm.DB) ProductInfoRepository
}

// GormProductInfoRepository GORM 实现
type GormProductInfoRepository struct {
	db *gorm.DB
}

// NewProductInfoRepository 创建报价仓库
func NewProductInfoRepository(db *gorm.DB) *GormProductInfoRepository {
	return &GormProductInfoRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductInfoRepository) WithTx(tx *gorm.DB) ProductInfoRepository {
	if tx == nil {
		return r
	}
	return &GormProductInfoRepository{db: tx}
}

// UpsertListing 按 (product_id, shop_id) 写入报价，已存在时原地更新名称、数量与价格
func (r *GormProductInfoRepository) UpsertListing(ctx context.Context, info *models.ProductInfo) (*models.ProductInfo, error) {
	if info == nil {
		return nil, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "shop_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "quantity", "price", "price_rrc", "updated_at"}),
		}).
		Create(info).Error
	if err != nil {
		return nil, err
	}
	var stored models.ProductInfo
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND shop_id = ?", info.ProductID, info.ShopID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetListing 获取店铺报价
func (r *GormProductInfoRepository) GetListing(ctx context.Context, productID, shopID uint) (*models.ProductInfo, error) {
	var info models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shop_id = ?", productID, shopID).
		First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// EnsureParameter 按名称获取或创建参数
func (r *GormProductInfoRepository) EnsureParameter(ctx context.Context, name string) (*models.Parameter, error) {
	param := models.Parameter{Name: name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&param).Error; err != nil {
		return nil, err
	}
	var stored models.Parameter
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpsertParameterValue 写入报价参数值，已存在时更新值
func (r *GormProductInfoRepository) UpsertParameterValue(ctx context.Context, productInfoID, parameterID uint, value string) error {
	row := models.ProductParameter{
		ProductInfoID: productInfoID,
		ParameterID:   parameterID,
		Value:         value,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_info_id"}, {Name: "parameter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

// ListParameterValues 获取报价的全部参数值
func (r *GormProductInfoRepository) ListParameterValues(ctx context.Context, productInfoID uint) ([]models.ProductParameter, error) {
	var rows []models.ProductParameter
	err := r.db.WithContext(ctx).
		Preload("Parameter").
		Where("product_info_id = ?", productInfoID).
		Order("parameter_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
