package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

type testRepos struct {
	users      *repository.GormUserRepository
	shops      *repository.GormShopRepository
	categories *repository.GormCategoryRepository
	products   *repository.GormProductRepository
	infos      *repository.GormProductInfoRepository
	orders     *repository.GormOrderRepository
	items      *repository.GormOrderItemRepository
	runs       *repository.GormFeedSyncRunRepository
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		users:      repository.NewUserRepository(db),
		shops:      repository.NewShopRepository(db),
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
		infos:      repository.NewProductInfoRepository(db),
		orders:     repository.NewOrderRepository(db),
		items:      repository.NewOrderItemRepository(db),
		runs:       repository.NewFeedSyncRunRepository(db),
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email, userType string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: strings.Split(email, "@")[0], Type: userType}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createServiceTestShop(t *testing.T, db *gorm.DB, name, feedURL string) *models.Shop {
	t.Helper()
	owner := createServiceTestUser(t, db, name+"@example.com", constants.UserTypeShop)
	shop := &models.Shop{OwnerID: owner.ID, Name: name, FeedURL: feedURL}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	return shop
}
