package repository

import (
	"context"
	"errors"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetOpenByUser(ctx context.Context, userID uint) (*models.Order, error)
	EnsureOpen(ctx context.Context, userID uint) (*models.Order, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetOpenByUser 获取用户当前的 open 订单
func (r *GormOrderRepository) GetOpenByUser(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("open_user_id = ?", userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// EnsureOpen 获取或创建用户的 open 订单，并发首次访问只会产生一条订单
func (r *GormOrderRepository) EnsureOpen(ctx context.Context, userID uint) (*models.Order, error) {
	openUserID := userID
	order := models.Order{
		UserID:     userID,
		OpenUserID: &openUserID,
		Status:     constants.OrderStatusOpen,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "open_user_id"}}, DoNothing: true}).
		Create(&order).Error; err != nil {
		return nil, err
	}
	var stored models.Order
	if err := r.db.WithContext(ctx).Where("open_user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
