package repository

import (
	"context"
	"errors"
	"time"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQuantityOutOfRange 累加结果超出 constants.MaxLineQuantity
var ErrQuantityOutOfRange = errors.New("order item quantity out of range")

// OrderLineKey 订单项业务主键
type OrderLineKey struct {
	OrderID   uint
	ShopID    uint
	ProductID uint
}

// OrderItemRepository 订单项数据访问接口
type OrderItemRepository interface {
	AddQuantity(ctx context.Context, key OrderLineKey, delta int) (*models.OrderItem, error)
	SubtractQuantity(ctx context.Context, key OrderLineKey, amount int) (int64, error)
	ReplaceQuantity(ctx context.Context, key OrderLineKey, quantity int) (int64, error)
	FindLine(ctx context.Context, key OrderLineKey) (*models.OrderItem, error)
	List(ctx context.Context, filter OrderItemListFilter) ([]models.OrderItem, error)
	WithTx(tx *gorm.DB) OrderItemRepository
}

// GormOrderItemRepository GORM 实现
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository 创建订单项仓库
func NewOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderItemRepository) WithTx(tx *gorm.DB) OrderItemRepository {
	if tx == nil {
		return r
	}
	return &GormOrderItemRepository{db: tx}
}

func (r *GormOrderItemRepository) scopeKey(db *gorm.DB, key OrderLineKey) *gorm.DB {
	return db.Where("order_id = ? AND shop_id = ? AND product_id = ?", key.OrderID, key.ShopID, key.ProductID)
}

// AddQuantity 单条语句完成插入或累加：不存在时以 delta 创建，存在时 quantity += delta
// 累加结果超过 constants.MaxLineQuantity 时不做任何修改并返回 ErrQuantityOutOfRange
func (r *GormOrderItemRepository) AddQuantity(ctx context.Context, key OrderLineKey, delta int) (*models.OrderItem, error) {
	if delta <= 0 || delta > constants.MaxLineQuantity {
		return nil, ErrQuantityOutOfRange
	}
	item := models.OrderItem{
		OrderID:   key.OrderID,
		ShopID:    key.ShopID,
		ProductID: key.ProductID,
		Quantity:  delta,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}, {Name: "shop_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("order_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("order_items.quantity + excluded.quantity <= ?", constants.MaxLineQuantity),
			}},
		}).
		Create(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrQuantityOutOfRange
	}
	return r.mustFind(ctx, key)
}

// SubtractQuantity 条件扣减，结果必须仍为正数，返回受影响行数
func (r *GormOrderItemRepository) SubtractQuantity(ctx context.Context, key OrderLineKey, amount int) (int64, error) {
	result := r.scopeKey(r.db.WithContext(ctx).Model(&models.OrderItem{}), key).
		Where("quantity > ?", amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReplaceQuantity 将匹配的首条订单项数量直接替换，返回受影响行数
func (r *GormOrderItemRepository) ReplaceQuantity(ctx context.Context, key OrderLineKey, quantity int) (int64, error) {
	existing, err := r.FindLine(ctx, key)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindLine 获取匹配的首条订单项
func (r *GormOrderItemRepository) FindLine(ctx context.Context, key OrderLineKey) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.scopeKey(r.db.WithContext(ctx), key).Order("id asc").First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormOrderItemRepository) mustFind(ctx context.Context, key OrderLineKey) (*models.OrderItem, error) {
	item, err := r.FindLine(ctx, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

// List 按订单或店铺筛选订单项
func (r *GormOrderItemRepository) List(ctx context.Context, filter OrderItemListFilter) ([]models.OrderItem, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderItem{})
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.ShopID > 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	var items []models.OrderItem
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
