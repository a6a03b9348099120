package repository

import (
	"context"
	"testing"

	"github.com/orders-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestEnsureCategoryKeepsExistingName(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	first, err := repo.EnsureCategory(ctx, 1, "Phones")
	if err != nil {
		t.Fatalf("ensure category failed: %v", err)
	}
	if first.Name != "Phones" {
		t.Fatalf("name want Phones got %s", first.Name)
	}
	second, err := repo.EnsureCategory(ctx, 1, "Smartphones")
	if err != nil {
		t.Fatalf("ensure existing category failed: %v", err)
	}
	if second.Name != "Phones" {
		t.Fatalf("existing name should be kept, got %s", second.Name)
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 1 {
		t.Fatalf("category count want 1 got %d", count)
	}
}

func TestLinkShopIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	shop := createTestShop(t, db, "link-shop")

	if _, err := repo.EnsureCategory(ctx, 7, "Audio"); err != nil {
		t.Fatalf("ensure category failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.LinkShop(ctx, shop.ID, 7); err != nil {
			t.Fatalf("link shop failed: %v", err)
		}
	}
	categories, err := repo.ListByShop(ctx, shop.ID)
	if err != nil {
		t.Fatalf("list by shop failed: %v", err)
	}
	if len(categories) != 1 || categories[0].ID != 7 {
		t.Fatalf("unexpected shop categories: %+v", categories)
	}
}

func TestProductUpsertRefreshesModelAndRespectsCategoryFlag(t *testing.T) {
	db := openTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	if _, err := categories.EnsureCategory(ctx, 1, "Phones"); err != nil {
		t.Fatalf("ensure category failed: %v", err)
	}
	categoryID := uint(1)
	if err := products.Upsert(ctx, &models.Product{ID: 10, Model: "X1", CategoryID: &categoryID}, true); err != nil {
		t.Fatalf("insert product failed: %v", err)
	}
	if err := products.Upsert(ctx, &models.Product{ID: 10, Model: "X1-rev2"}, false); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	product, err := products.GetByID(ctx, 10)
	if err != nil || product == nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Model != "X1-rev2" {
		t.Fatalf("model want X1-rev2 got %s", product.Model)
	}
	if product.CategoryID == nil || *product.CategoryID != 1 {
		t.Fatalf("category should be untouched, got %v", product.CategoryID)
	}

	exists, err := products.Exists(ctx, 11)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("product 11 should not exist")
	}
}

func TestUpsertListingUpdatesInPlace(t *testing.T) {
	db := openTestDB(t)
	products := NewProductRepository(db)
	infos := NewProductInfoRepository(db)
	ctx := context.Background()
	shop := createTestShop(t, db, "listing-shop")

	if err := products.Upsert(ctx, &models.Product{ID: 10, Model: "X1"}, true); err != nil {
		t.Fatalf("insert product failed: %v", err)
	}
	first, err := infos.UpsertListing(ctx, &models.ProductInfo{
		ProductID: 10,
		ShopID:    shop.ID,
		Name:      "X1 128GB",
		Quantity:  5,
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
		PriceRRC:  models.NewMoneyFromDecimal(decimal.NewFromInt(350)),
	})
	if err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}
	second, err := infos.UpsertListing(ctx, &models.ProductInfo{
		ProductID: 10,
		ShopID:    shop.ID,
		Name:      "X1 128GB",
		Quantity:  2,
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(280)),
		PriceRRC:  models.NewMoneyFromDecimal(decimal.NewFromInt(350)),
	})
	if err != nil {
		t.Fatalf("update listing failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("listing id changed: %d -> %d", first.ID, second.ID)
	}
	if second.Quantity != 2 || second.Price.String() != "280.00" {
		t.Fatalf("listing not updated: quantity=%d price=%s", second.Quantity, second.Price.String())
	}

	var count int64
	db.Model(&models.ProductInfo{}).Count(&count)
	if count != 1 {
		t.Fatalf("listing count want 1 got %d", count)
	}
}

func TestParameterValueUpsert(t *testing.T) {
	db := openTestDB(t)
	products := NewProductRepository(db)
	infos := NewProductInfoRepository(db)
	ctx := context.Background()
	shop := createTestShop(t, db, "param-shop")

	if err := products.Upsert(ctx, &models.Product{ID: 10, Model: "X1"}, true); err != nil {
		t.Fatalf("insert product failed: %v", err)
	}
	listing, err := infos.UpsertListing(ctx, &models.ProductInfo{ProductID: 10, ShopID: shop.ID, Name: "X1", Quantity: 1})
	if err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}

	color, err := infos.EnsureParameter(ctx, "color")
	if err != nil {
		t.Fatalf("ensure parameter failed: %v", err)
	}
	again, err := infos.EnsureParameter(ctx, "color")
	if err != nil {
		t.Fatalf("ensure parameter again failed: %v", err)
	}
	if color.ID != again.ID {
		t.Fatalf("parameter id changed: %d -> %d", color.ID, again.ID)
	}

	for _, value := range []string{"red", "red", "blue"} {
		if err := infos.UpsertParameterValue(ctx, listing.ID, color.ID, value); err != nil {
			t.Fatalf("upsert value %s failed: %v", value, err)
		}
	}
	rows, err := infos.ListParameterValues(ctx, listing.ID)
	if err != nil {
		t.Fatalf("list values failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Value != "blue" {
		t.Fatalf("unexpected parameter rows: %+v", rows)
	}
	if rows[0].Parameter == nil || rows[0].Parameter.Name != "color" {
		t.Fatalf("parameter not preloaded: %+v", rows[0].Parameter)
	}
}

func TestProductListFilters(t *testing.T) {
	db := openTestDB(t)
	products := NewProductRepository(db)
	infos := NewProductInfoRepository(db)
	ctx := context.Background()
	shop := createTestShop(t, db, "list-shop")

	for _, p := range []models.Product{{ID: 1, Model: "alpha"}, {ID: 2, Model: "beta"}, {ID: 3, Model: "gamma"}} {
		product := p
		if err := products.Upsert(ctx, &product, true); err != nil {
			t.Fatalf("insert product failed: %v", err)
		}
	}
	if _, err := infos.UpsertListing(ctx, &models.ProductInfo{ProductID: 2, ShopID: shop.ID, Name: "Beta phone", Quantity: 1}); err != nil {
		t.Fatalf("insert listing failed: %v", err)
	}

	list, total, err := products.List(ctx, ProductListFilter{ShopID: shop.ID, WithListings: true})
	if err != nil {
		t.Fatalf("list by shop failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != 2 || len(list[0].Infos) != 1 {
		t.Fatalf("unexpected shop listing result: total=%d list=%+v", total, list)
	}

	list, total, err = products.List(ctx, ProductListFilter{Search: "phone"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || list[0].ID != 2 {
		t.Fatalf("search should match listing name, total=%d", total)
	}

	list, total, err = products.List(ctx, ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 3 || len(list) != 1 || list[0].ID != 3 {
		t.Fatalf("unexpected page: total=%d list=%+v", total, list)
	}
}
