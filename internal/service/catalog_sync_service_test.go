package service

import (
	"context"
	"errors"
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

const phonesFeed = `
shop: Phone Store
categories:
  - id: 1
    name: Phones
goods:
  - id: 10
    model: X1
    category: 1
    name: X1 128GB
    quantity: 5
    price: 300
    price_rrc: 350
    parameters:
      color: black
`

func decodeTestFeed(t *testing.T, raw string) *feed.Document {
	t.Helper()
	doc, err := feed.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode feed failed: %v", err)
	}
	return doc
}

func newTestCatalogSync(db *gorm.DB) *CatalogSyncService {
	repos := newTestRepos(db)
	return NewCatalogSyncService(repos.products, repos.categories, repos.infos)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func TestSynchronizeScenario(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	report, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, phonesFeed))
	if err != nil {
		t.Fatalf("synchronize failed: %v", err)
	}
	if report.Categories != 1 || report.Products != 1 || report.Listings != 1 || report.Parameters != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", report.Diagnostics)
	}

	var category models.Category
	if err := db.First(&category, 1).Error; err != nil || category.Name != "Phones" {
		t.Fatalf("unexpected category: %+v err=%v", category, err)
	}
	var product models.Product
	if err := db.First(&product, 10).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if product.Model != "X1" || product.CategoryID == nil || *product.CategoryID != 1 {
		t.Fatalf("unexpected product: %+v", product)
	}
	var info models.ProductInfo
	if err := db.Where("product_id = ? AND shop_id = ?", 10, shop.ID).First(&info).Error; err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if info.Quantity != 5 || info.Price.String() != "300.00" || info.PriceRRC.String() != "350.00" {
		t.Fatalf("unexpected listing: %+v", info)
	}
	var param models.ProductParameter
	if err := db.Preload("Parameter").Where("product_info_id = ?", info.ID).First(&param).Error; err != nil {
		t.Fatalf("load parameter failed: %v", err)
	}
	if param.Value != "black" || param.Parameter == nil || param.Parameter.Name != "color" {
		t.Fatalf("unexpected parameter: %+v", param)
	}
	var link models.ShopCategory
	if err := db.Where("shop_id = ? AND category_id = ?", shop.ID, 1).First(&link).Error; err != nil {
		t.Fatalf("shop category link missing: %v", err)
	}
}

func TestSynchronizeIsIdempotent(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	for i := 0; i < 2; i++ {
		if _, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, phonesFeed)); err != nil {
			t.Fatalf("synchronize #%d failed: %v", i+1, err)
		}
	}
	if n := countRows(t, db, &models.Category{}); n != 1 {
		t.Fatalf("expected 1 category, got %d", n)
	}
	if n := countRows(t, db, &models.Product{}); n != 1 {
		t.Fatalf("expected 1 product, got %d", n)
	}
	if n := countRows(t, db, &models.ProductInfo{}); n != 1 {
		t.Fatalf("expected 1 listing, got %d", n)
	}
	if n := countRows(t, db, &models.Parameter{}); n != 1 {
		t.Fatalf("expected 1 parameter, got %d", n)
	}
	if n := countRows(t, db, &models.ProductParameter{}); n != 1 {
		t.Fatalf("expected 1 parameter value, got %d", n)
	}
	if n := countRows(t, db, &models.ShopCategory{}); n != 1 {
		t.Fatalf("expected 1 shop category link, got %d", n)
	}
}

func TestSynchronizeUpdatesListingAndParameterInPlace(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	if _, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, phonesFeed)); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	updated := `
categories:
  - id: 1
    name: Smartphones
goods:
  - id: 10
    model: X1 Pro
    category: 1
    name: X1 256GB
    quantity: 2
    price: 320.50
    price_rrc: 360
    parameters:
      color: red
`
	if _, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, updated)); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	var category models.Category
	if err := db.First(&category, 1).Error; err != nil {
		t.Fatalf("load category failed: %v", err)
	}
	if category.Name != "Phones" {
		t.Fatalf("existing category name should be kept, got %s", category.Name)
	}
	var product models.Product
	if err := db.First(&product, 10).Error; err != nil || product.Model != "X1 Pro" {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}
	var info models.ProductInfo
	if err := db.Where("product_id = ?", 10).First(&info).Error; err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if info.Name != "X1 256GB" || info.Quantity != 2 || info.Price.String() != "320.50" {
		t.Fatalf("unexpected listing: %+v", info)
	}
	var values []models.ProductParameter
	if err := db.Where("product_info_id = ?", info.ID).Find(&values).Error; err != nil {
		t.Fatalf("load parameters failed: %v", err)
	}
	if len(values) != 1 || values[0].Value != "red" {
		t.Fatalf("expected single red value, got %+v", values)
	}
}

func TestSynchronizeMissingCategory(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	raw := `
categories: []
goods:
  - id: 11
    model: Y2
    category: 99
    name: Y2 64GB
    quantity: 1
    price: 100
    price_rrc: 120
`
	report, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, raw))
	if err != nil {
		t.Fatalf("synchronize failed: %v", err)
	}
	if report.Products != 1 || report.MissingCategories() != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	d := report.Diagnostics[0]
	if d.Kind != constants.DiagnosticMissingCategory || d.CategoryID != 99 || d.ProductID != 11 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	var product models.Product
	if err := db.First(&product, 11).Error; err != nil {
		t.Fatalf("product should exist: %v", err)
	}
	if product.CategoryID != nil {
		t.Fatalf("expected no category, got %d", *product.CategoryID)
	}
}

func TestSynchronizeMissingCategoryKeepsExistingAssignment(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	if _, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, phonesFeed)); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	raw := `
goods:
  - id: 10
    model: X1
    category: 42
    name: X1 128GB
    quantity: 4
    price: 300
    price_rrc: 350
`
	report, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, raw))
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if report.MissingCategories() != 1 {
		t.Fatalf("expected one diagnostic, got %+v", report.Diagnostics)
	}
	var product models.Product
	if err := db.First(&product, 10).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if product.CategoryID == nil || *product.CategoryID != 1 {
		t.Fatalf("category assignment should be kept, got %+v", product.CategoryID)
	}
}

func TestSynchronizeResolvesCategoryFromStore(t *testing.T) {
	db := openServiceTestDB(t)
	first := createServiceTestShop(t, db, "first", "")
	second := createServiceTestShop(t, db, "second", "")
	svc := newTestCatalogSync(db)

	if _, err := svc.Synchronize(context.Background(), first, decodeTestFeed(t, phonesFeed)); err != nil {
		t.Fatalf("first shop sync failed: %v", err)
	}
	raw := `
goods:
  - id: 20
    model: Z3
    category: 1
    name: Z3
    quantity: 7
    price: 150
    price_rrc: 180
`
	report, err := svc.Synchronize(context.Background(), second, decodeTestFeed(t, raw))
	if err != nil {
		t.Fatalf("second shop sync failed: %v", err)
	}
	if len(report.Diagnostics) != 0 {
		t.Fatalf("category should resolve from store, got %+v", report.Diagnostics)
	}
	var product models.Product
	if err := db.First(&product, 20).Error; err != nil || product.CategoryID == nil || *product.CategoryID != 1 {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}
}

func TestSynchronizeTwoShopsShareProduct(t *testing.T) {
	db := openServiceTestDB(t)
	first := createServiceTestShop(t, db, "first", "")
	second := createServiceTestShop(t, db, "second", "")
	svc := newTestCatalogSync(db)

	for _, shop := range []*models.Shop{first, second} {
		if _, err := svc.Synchronize(context.Background(), shop, decodeTestFeed(t, phonesFeed)); err != nil {
			t.Fatalf("sync for %s failed: %v", shop.Name, err)
		}
	}
	if n := countRows(t, db, &models.Product{}); n != 1 {
		t.Fatalf("expected shared product, got %d rows", n)
	}
	if n := countRows(t, db, &models.ProductInfo{}); n != 2 {
		t.Fatalf("expected one listing per shop, got %d", n)
	}
	if n := countRows(t, db, &models.Parameter{}); n != 1 {
		t.Fatalf("expected shared parameter name, got %d", n)
	}
}

func TestSynchronizeCancelledRollsBack(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Synchronize(ctx, shop, decodeTestFeed(t, phonesFeed))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if n := countRows(t, db, &models.Category{}); n != 0 {
		t.Fatalf("expected no categories after cancel, got %d", n)
	}
	if n := countRows(t, db, &models.Product{}); n != 0 {
		t.Fatalf("expected no products after cancel, got %d", n)
	}
}

func TestSynchronizeRejectsInvalidDocument(t *testing.T) {
	db := openServiceTestDB(t)
	shop := createServiceTestShop(t, db, "phones", "")
	svc := newTestCatalogSync(db)

	doc := &feed.Document{Goods: []feed.Good{{ID: 1, Name: "no model"}}}
	if _, err := svc.Synchronize(context.Background(), shop, doc); !errors.Is(err, feed.ErrMalformedDocument) {
		t.Fatalf("expected malformed document, got %v", err)
	}
	if _, err := svc.Synchronize(context.Background(), nil, decodeTestFeed(t, phonesFeed)); !errors.Is(err, ErrShopNotFound) {
		t.Fatalf("expected shop not found, got %v", err)
	}
}
