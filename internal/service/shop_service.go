package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

const shopNameMaxLength = 50

// ShopService 店铺服务
type ShopService struct {
	shopRepo   repository.ShopRepository
	userRepo   repository.UserRepository
	dispatcher CatalogSyncDispatcher
}

// NewShopService 创建店铺服务
func NewShopService(shopRepo repository.ShopRepository, userRepo repository.UserRepository, dispatcher CatalogSyncDispatcher) *ShopService {
	return &ShopService{
		shopRepo:   shopRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
	}
}

// CreateShopInput 创建店铺输入
type CreateShopInput struct {
	OwnerID uint
	Name    string
	FeedURL string
}

// UpdateShopInput 更新店铺输入，nil 字段保持不变
type UpdateShopInput struct {
	Name    *string
	FeedURL *string
}

// CreateShop 创建店铺，登记了数据源时投递首次同步
func (s *ShopService) CreateShop(ctx context.Context, input CreateShopInput) (*models.Shop, error) {
	name, err := normalizeShopName(input.Name)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	if owner.Type != constants.UserTypeShop {
		return nil, ErrShopOwnerNotSeller
	}
	existing, err := s.shopRepo.GetByName(ctx, name)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if existing != nil {
		return nil, ErrShopNameExists
	}

	shop := &models.Shop{
		OwnerID: owner.ID,
		Name:    name,
		FeedURL: strings.TrimSpace(input.FeedURL),
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrShopNameExists
		}
		return nil, classifyStoreError(err)
	}
	s.dispatchSync(ctx, shop, constants.SyncTriggerCreated)
	return shop, nil
}

// UpdateShop 更新店铺，仅店主可操作；数据源存在时重新投递同步
func (s *ShopService) UpdateShop(ctx context.Context, shopID, ownerID uint, input UpdateShopInput) (*models.Shop, error) {
	shop, err := s.GetOwnedShop(ctx, shopID, ownerID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name, err := normalizeShopName(*input.Name)
		if err != nil {
			return nil, err
		}
		if name != shop.Name {
			existing, err := s.shopRepo.GetByName(ctx, name)
			if err != nil {
				return nil, classifyStoreError(err)
			}
			if existing != nil && existing.ID != shop.ID {
				return nil, ErrShopNameExists
			}
			shop.Name = name
		}
	}
	if input.FeedURL != nil {
		shop.FeedURL = strings.TrimSpace(*input.FeedURL)
	}
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrShopNameExists
		}
		return nil, classifyStoreError(err)
	}
	s.dispatchSync(ctx, shop, constants.SyncTriggerUpdated)
	return shop, nil
}

// GetShop 获取店铺
func (s *ShopService) GetShop(ctx context.Context, shopID uint) (*models.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

// GetOwnerShop 获取店主名下的店铺
func (s *ShopService) GetOwnerShop(ctx context.Context, ownerID uint) (*models.Shop, error) {
	shop, err := s.shopRepo.GetFirstByOwner(ctx, ownerID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

// ListShops 店铺列表
func (s *ShopService) ListShops(ctx context.Context, page, pageSize int) ([]models.Shop, int64, error) {
	shops, total, err := s.shopRepo.List(ctx, repository.ShopListFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, classifyStoreError(err)
	}
	return shops, total, nil
}

// ListShopsWithFeed 获取登记了数据源的全部店铺
func (s *ShopService) ListShopsWithFeed(ctx context.Context) ([]models.Shop, error) {
	shops, _, err := s.shopRepo.List(ctx, repository.ShopListFilter{OnlyWithFeed: true})
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return shops, nil
}

// RequestSync 店主手动触发同步
func (s *ShopService) RequestSync(ctx context.Context, shopID, ownerID uint) error {
	shop, err := s.GetOwnedShop(ctx, shopID, ownerID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(shop.FeedURL) == "" {
		return ErrShopFeedMissing
	}
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.Dispatch(ctx, shop.ID, constants.SyncTriggerManual)
}

// ScheduleRefresh 为所有登记了数据源的店铺投递定时同步，返回成功投递数量
func (s *ShopService) ScheduleRefresh(ctx context.Context) (int, error) {
	shops, err := s.ListShopsWithFeed(ctx)
	if err != nil {
		return 0, err
	}
	dispatched := 0
	for i := range shops {
		if s.dispatcher == nil {
			break
		}
		if err := s.dispatcher.Dispatch(ctx, shops[i].ID, constants.SyncTriggerScheduled); err != nil {
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// GetOwnedShop 获取店铺并校验归属
func (s *ShopService) GetOwnedShop(ctx context.Context, shopID, ownerID uint) (*models.Shop, error) {
	shop, err := s.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, ErrShopForbidden
	}
	return shop, nil
}

func (s *ShopService) dispatchSync(ctx context.Context, shop *models.Shop, trigger string) {
	if s.dispatcher == nil || strings.TrimSpace(shop.FeedURL) == "" {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, shop.ID, trigger); err != nil {
		logger.Warnw("shop_sync_dispatch_failed", "shop_id", shop.ID, "trigger", trigger, "error", err)
	}
}

func normalizeShopName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > shopNameMaxLength {
		return "", ErrShopInvalid
	}
	return name, nil
}
