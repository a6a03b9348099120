package service

import (
	"context"
	"errors"
	"time"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

// OrderLineService 订单项合并服务
type OrderLineService struct {
	orderRepo   repository.OrderRepository
	itemRepo    repository.OrderItemRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	timeout     time.Duration
}

// NewOrderLineService 创建订单项服务，timeout 为单次存储调用超时（0 表示不额外限制）
func NewOrderLineService(orderRepo repository.OrderRepository, itemRepo repository.OrderItemRepository, shopRepo repository.ShopRepository, productRepo repository.ProductRepository, timeout time.Duration) *OrderLineService {
	return &OrderLineService{
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		timeout:     timeout,
	}
}

func (s *OrderLineService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// UpsertLine 将数量增量合并到 (order, shop, product) 对应的订单项
// 正增量不存在时创建、存在时累加且结果不超过 constants.MaxLineQuantity；负增量仅在结果仍为正数时扣减
func (s *OrderLineService) UpsertLine(ctx context.Context, orderID, shopID, productID uint, delta int) (*models.OrderItem, error) {
	if delta == 0 || delta > constants.MaxLineQuantity || delta < -constants.MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.checkReferences(ctx, orderID, shopID, productID); err != nil {
		return nil, err
	}
	key := repository.OrderLineKey{OrderID: orderID, ShopID: shopID, ProductID: productID}

	if delta > 0 {
		item, err := s.itemRepo.AddQuantity(ctx, key, delta)
		if errors.Is(err, repository.ErrQuantityOutOfRange) {
			return nil, ErrInvalidQuantity
		}
		if err != nil {
			return nil, classifyStoreError(err)
		}
		return item, nil
	}

	affected, err := s.itemRepo.SubtractQuantity(ctx, key, -delta)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if affected == 0 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.itemRepo.FindLine(ctx, key)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if item == nil {
		return nil, ErrOrderLineNotFound
	}
	return item, nil
}

// ReplaceLine 将已存在订单项的数量替换为给定值，不存在时返回 ErrOrderLineNotFound
func (s *OrderLineService) ReplaceLine(ctx context.Context, orderID, shopID, productID uint, quantity int) (*models.OrderItem, error) {
	if quantity <= 0 || quantity > constants.MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.checkReferences(ctx, orderID, shopID, productID); err != nil {
		return nil, err
	}
	key := repository.OrderLineKey{OrderID: orderID, ShopID: shopID, ProductID: productID}
	affected, err := s.itemRepo.ReplaceQuantity(ctx, key, quantity)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if affected == 0 {
		return nil, ErrOrderLineNotFound
	}
	item, err := s.itemRepo.FindLine(ctx, key)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if item == nil {
		return nil, ErrOrderLineNotFound
	}
	return item, nil
}

// ListLines 获取订单的全部订单项
func (s *OrderLineService) ListLines(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	items, err := s.itemRepo.List(ctx, repository.OrderItemListFilter{OrderID: orderID})
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return items, nil
}

// ListLinesForShopView 获取店铺视角下涉及本店的全部订单项
func (s *OrderLineService) ListLinesForShopView(ctx context.Context, shopID uint) ([]models.OrderItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	items, err := s.itemRepo.List(ctx, repository.OrderItemListFilter{ShopID: shopID})
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return items, nil
}

// OpenOrder 获取用户的 open 订单，首次访问时原子创建
func (s *OrderLineService) OpenOrder(ctx context.Context, userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order, err := s.orderRepo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return order, nil
}

func (s *OrderLineService) checkReferences(ctx context.Context, orderID, shopID, productID uint) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return classifyStoreError(err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return classifyStoreError(err)
	}
	if shop == nil {
		return ErrShopNotFound
	}
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return classifyStoreError(err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return nil
}
