package service

import (
	"context"
	"strings"

	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

// ProductService 商品目录查询服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductListInput 商品列表查询参数
type ProductListInput struct {
	CategoryID uint
	ShopID     uint
	Search     string
	Page       int
	PageSize   int
}

// ListProducts 获取商品列表，附带各店铺报价
func (s *ProductService) ListProducts(ctx context.Context, input ProductListInput) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         input.Page,
		PageSize:     input.PageSize,
		CategoryID:   input.CategoryID,
		ShopID:       input.ShopID,
		Search:       strings.TrimSpace(input.Search),
		WithListings: true,
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, classifyStoreError(err)
	}
	return products, total, nil
}

// GetProduct 获取商品详情（分类、报价、参数）
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListShopCategories 获取店铺数据源声明过的分类
func (s *ProductService) ListShopCategories(ctx context.Context, shopID uint) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return categories, nil
}
