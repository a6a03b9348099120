package service

import (
	"context"
	"errors"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"gorm.io/gorm"
)

// SyncReport 单次目录同步结果
type SyncReport struct {
	Categories  int                     `json:"categories"`
	Products    int                     `json:"products"`
	Listings    int                     `json:"listings"`
	Parameters  int                     `json:"parameters"`
	Diagnostics []models.SyncDiagnostic `json:"diagnostics"`
}

// MissingCategories 返回缺失分类诊断数量
func (r *SyncReport) MissingCategories() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, d := range r.Diagnostics {
		if d.Kind == constants.DiagnosticMissingCategory {
			count++
		}
	}
	return count
}

// CatalogSyncService 将数据源文档同步到目录存储
type CatalogSyncService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	infoRepo     repository.ProductInfoRepository
}

// NewCatalogSyncService 创建目录同步服务
func NewCatalogSyncService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, infoRepo repository.ProductInfoRepository) *CatalogSyncService {
	return &CatalogSyncService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		infoRepo:     infoRepo,
	}
}

// Synchronize 按文档顺序写入分类、商品、报价与参数
// 整个店铺的同步在一个事务内完成，任一记录失败则全部回滚
func (s *CatalogSyncService) Synchronize(ctx context.Context, shop *models.Shop, doc *feed.Document) (*SyncReport, error) {
	if shop == nil || shop.ID == 0 {
		return nil, ErrShopNotFound
	}
	if err := feed.Validate(doc); err != nil {
		return nil, err
	}

	var report *SyncReport
	err := s.productRepo.Transaction(ctx, func(tx *gorm.DB) error {
		run := &catalogSyncRun{
			ctx:        ctx,
			shop:       shop,
			categories: s.categoryRepo.WithTx(tx),
			products:   s.productRepo.WithTx(tx),
			infos:      s.infoRepo.WithTx(tx),
			known:      make(map[uint]bool, len(doc.Categories)),
			params:     make(map[string]uint),
			report:     &SyncReport{Diagnostics: []models.SyncDiagnostic{}},
		}
		if err := run.applyCategories(doc.Categories); err != nil {
			return err
		}
		if err := run.applyGoods(doc.Goods); err != nil {
			return err
		}
		report = run.report
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	for _, d := range report.Diagnostics {
		logger.Warnw("catalog_sync_missing_category",
			"shop_id", shop.ID,
			"product_id", d.ProductID,
			"category_id", d.CategoryID,
			"error", ErrMissingReference,
		)
	}
	return report, nil
}

type catalogSyncRun struct {
	ctx        context.Context
	shop       *models.Shop
	categories repository.CategoryRepository
	products   repository.ProductRepository
	infos      repository.ProductInfoRepository
	known      map[uint]bool
	params     map[string]uint
	report     *SyncReport
}

func (r *catalogSyncRun) applyCategories(categories []feed.Category) error {
	for _, item := range categories {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if _, err := r.categories.EnsureCategory(r.ctx, item.ID, item.Name); err != nil {
			return err
		}
		if err := r.categories.LinkShop(r.ctx, r.shop.ID, item.ID); err != nil {
			return err
		}
		r.known[item.ID] = true
		r.report.Categories++
	}
	return nil
}

func (r *catalogSyncRun) applyGoods(goods []feed.Good) error {
	for _, good := range goods {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := r.applyGood(good); err != nil {
			return err
		}
	}
	return nil
}

func (r *catalogSyncRun) applyGood(good feed.Good) error {
	found, err := r.resolveCategory(good.CategoryID)
	if err != nil {
		return err
	}
	product := &models.Product{ID: good.ID, Model: good.Model}
	if found {
		categoryID := good.CategoryID
		product.CategoryID = &categoryID
	} else {
		r.report.Diagnostics = append(r.report.Diagnostics, models.SyncDiagnostic{
			Kind:       constants.DiagnosticMissingCategory,
			CategoryID: good.CategoryID,
			ProductID:  good.ID,
		})
	}
	if err := r.products.Upsert(r.ctx, product, found); err != nil {
		return err
	}
	r.report.Products++

	listing, err := r.infos.UpsertListing(r.ctx, &models.ProductInfo{
		ProductID: good.ID,
		ShopID:    r.shop.ID,
		Name:      good.Name,
		Quantity:  good.Quantity,
		Price:     models.NewMoneyFromDecimal(good.Price.Decimal),
		PriceRRC:  models.NewMoneyFromDecimal(good.PriceRRC.Decimal),
	})
	if err != nil {
		return err
	}
	r.report.Listings++

	for _, name := range good.ParameterNames() {
		parameterID, err := r.parameterID(name)
		if err != nil {
			return err
		}
		if err := r.infos.UpsertParameterValue(r.ctx, listing.ID, parameterID, good.Parameters[name].String()); err != nil {
			return err
		}
		r.report.Parameters++
	}
	return nil
}

// resolveCategory 先查本次文档，再查存储中其他店铺已写入的分类
func (r *catalogSyncRun) resolveCategory(categoryID uint) (bool, error) {
	if categoryID == 0 {
		return false, nil
	}
	if r.known[categoryID] {
		return true, nil
	}
	category, err := r.categories.GetByID(r.ctx, categoryID)
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, nil
	}
	r.known[categoryID] = true
	return true, nil
}

func (r *catalogSyncRun) parameterID(name string) (uint, error) {
	if id, ok := r.params[name]; ok {
		return id, nil
	}
	param, err := r.infos.EnsureParameter(r.ctx, name)
	if err != nil {
		return 0, err
	}
	if param == nil {
		return 0, errors.New("parameter not persisted: " + name)
	}
	r.params[name] = param.ID
	return param.ID, nil
}
