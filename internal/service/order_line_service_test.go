package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

type orderLineFixture struct {
	svc     *OrderLineService
	order   *models.Order
	shop    *models.Shop
	product *models.Product
}

func newOrderLineFixture(t *testing.T, db *gorm.DB) orderLineFixture {
	t.Helper()
	repos := newTestRepos(db)
	svc := NewOrderLineService(repos.orders, repos.items, repos.shops, repos.products, 0)

	buyer := createServiceTestUser(t, db, "buyer@example.com", constants.UserTypeBuyer)
	shop := createServiceTestShop(t, db, "phones", "")
	product := &models.Product{ID: 10, Model: "X1"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order, err := svc.OpenOrder(context.Background(), buyer.ID)
	if err != nil {
		t.Fatalf("open order failed: %v", err)
	}
	return orderLineFixture{svc: svc, order: order, shop: shop, product: product}
}

func (f orderLineFixture) upsert(t *testing.T, delta int) (*models.OrderItem, error) {
	t.Helper()
	return f.svc.UpsertLine(context.Background(), f.order.ID, f.shop.ID, f.product.ID, delta)
}

func TestUpsertLineMergesQuantities(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	if _, err := f.upsert(t, 3); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	item, err := f.upsert(t, 2)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", item.Quantity)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 1 {
		t.Fatalf("expected a single line, got %d", n)
	}
}

func TestUpsertLineNegativeDelta(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	if _, err := f.upsert(t, 5); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}
	item, err := f.upsert(t, -2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", item.Quantity)
	}
	if _, err := f.upsert(t, -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity when reaching zero, got %v", err)
	}
	var stored models.OrderItem
	if err := db.First(&stored, item.ID).Error; err != nil || stored.Quantity != 3 {
		t.Fatalf("line should be unchanged: %+v err=%v", stored, err)
	}
}

func TestUpsertLineNegativeOnEmptyState(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	if _, err := f.upsert(t, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestUpsertLineRejectsQuantityAboveLimit(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	if _, err := f.upsert(t, 1); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	for _, delta := range []int{math.MaxInt, constants.MaxLineQuantity, math.MinInt} {
		if _, err := f.upsert(t, delta); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("delta %d: expected invalid quantity, got %v", delta, err)
		}
	}
	if _, err := f.svc.ReplaceLine(context.Background(), f.order.ID, f.shop.ID, f.product.ID, constants.MaxLineQuantity+1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity on oversized replace, got %v", err)
	}

	items, err := f.svc.ListLines(context.Background(), f.order.ID)
	if err != nil {
		t.Fatalf("list lines failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected line to stay at 1, got %+v", items)
	}
}

func TestUpsertLineZeroDelta(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	if _, err := f.upsert(t, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestUpsertLineConcurrentAdds(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.UpsertLine(context.Background(), f.order.ID, f.shop.ID, f.product.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent upsert failed: %v", err)
	}
	items, err := f.svc.ListLines(context.Background(), f.order.ID)
	if err != nil {
		t.Fatalf("list lines failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 10 {
		t.Fatalf("expected one line with quantity 10, got %+v", items)
	}
}

func TestUpsertLineMissingReferences(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)
	ctx := context.Background()

	if _, err := f.svc.UpsertLine(ctx, 9999, f.shop.ID, f.product.ID, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
	if _, err := f.svc.UpsertLine(ctx, f.order.ID, 9999, f.product.ID, 1); !errors.Is(err, ErrShopNotFound) {
		t.Fatalf("expected shop not found, got %v", err)
	}
	if _, err := f.svc.UpsertLine(ctx, f.order.ID, f.shop.ID, 9999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
	if _, err := f.svc.UpsertLine(ctx, f.order.ID, f.shop.ID, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected generic not found, got %v", err)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestReplaceLine(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)
	ctx := context.Background()

	if _, err := f.upsert(t, 5); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}
	item, err := f.svc.ReplaceLine(ctx, f.order.ID, f.shop.ID, f.product.ID, 7)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if item.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", item.Quantity)
	}
	if _, err := f.svc.ReplaceLine(ctx, f.order.ID, f.shop.ID, f.product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestReplaceLineAbsent(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	_, err := f.svc.ReplaceLine(context.Background(), f.order.ID, f.shop.ID, f.product.ID, 7)
	if !errors.Is(err, ErrOrderLineNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected order line not found, got %v", err)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 0 {
		t.Fatalf("replace must not create rows, got %d", n)
	}
}

func TestListLinesForShopView(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)
	ctx := context.Background()

	other := createServiceTestShop(t, db, "other", "")
	if _, err := f.upsert(t, 2); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := f.svc.UpsertLine(ctx, f.order.ID, other.ID, f.product.ID, 4); err != nil {
		t.Fatalf("upsert other shop failed: %v", err)
	}

	items, err := f.svc.ListLinesForShopView(ctx, f.shop.ID)
	if err != nil {
		t.Fatalf("shop view failed: %v", err)
	}
	if len(items) != 1 || items[0].ShopID != f.shop.ID || items[0].Quantity != 2 {
		t.Fatalf("unexpected shop view: %+v", items)
	}
	all, err := f.svc.ListLines(ctx, f.order.ID)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 lines, got %d err=%v", len(all), err)
	}
	if _, err := f.svc.ListLinesForShopView(ctx, 9999); !errors.Is(err, ErrShopNotFound) {
		t.Fatalf("expected shop not found, got %v", err)
	}
	if _, err := f.svc.ListLines(ctx, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestOpenOrderIsStable(t *testing.T) {
	db := openServiceTestDB(t)
	f := newOrderLineFixture(t, db)

	again, err := f.svc.OpenOrder(context.Background(), f.order.UserID)
	if err != nil {
		t.Fatalf("open order failed: %v", err)
	}
	if again.ID != f.order.ID || again.Status != constants.OrderStatusOpen {
		t.Fatalf("expected same open order, got %+v", again)
	}
	if _, err := f.svc.OpenOrder(context.Background(), 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
