package main

import (
	"context"
	"errors"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/queue"

	"gorm.io/gorm"
)

const demoFeed = "demo-phones.yaml"

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions("orders-seed"))
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加用户
	seller := ensureUser(models.User{
		Email:    "seller@orders.local",
		Name:     "Demo Seller",
		Company:  "Demo Phones Ltd",
		Position: "owner",
		Type:     constants.UserTypeShop,
	}, stdLog.Printf)
	buyer := ensureUser(models.User{
		Email: "buyer@orders.local",
		Name:  "Demo Buyer",
		Type:  constants.UserTypeBuyer,
	}, stdLog.Printf)
	if seller == nil || buyer == nil {
		stdLog.Fatalf("Failed to prepare demo users")
	}

	// 添加店铺
	var shop models.Shop
	err := models.DB.Where("name = ?", "demo-phones").First(&shop).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		shop = models.Shop{OwnerID: seller.ID, Name: "demo-phones", FeedURL: demoFeed}
		if err := models.DB.Create(&shop).Error; err != nil {
			stdLog.Fatalf("Failed to create shop: %v", err)
		}
		stdLog.Printf("Created shop: %s", shop.Name)
	case err != nil:
		stdLog.Fatalf("Failed to load shop: %v", err)
	default:
		stdLog.Printf("Shop already exists: %s", shop.Name)
	}

	// 同步示例数据源，不依赖 Redis 与队列
	queueClient, _ := queue.NewClient(nil, cfg.Sync)
	container := provider.NewContainerWithDB(cfg, models.DB, queueClient, feed.NewLoader(cfg.Feed.ToFeedOptions()))
	run, err := container.FeedSyncService.RunShopSync(context.Background(), shop.ID, constants.SyncTriggerCLI)
	if err != nil {
		stdLog.Printf("Demo feed sync failed: %v", err)
	} else {
		stdLog.Printf("Demo feed synced: categories=%d products=%d listings=%d parameters=%d",
			run.Categories, run.Products, run.Listings, run.Parameters)
	}

	// 输出开发用 JWT
	for _, user := range []*models.User{seller, buyer} {
		token, expiresAt, err := container.UserAuthService.GenerateUserJWT(user, 0)
		if err != nil {
			stdLog.Printf("Failed to sign token for %s: %v", user.Email, err)
			continue
		}
		stdLog.Printf("Token for %s (%s, expires %s):\n%s", user.Email, user.Type, expiresAt.Format("2006-01-02 15:04"), token)
	}

	stdLog.Printf("Seed completed")
}

func ensureUser(user models.User, logf func(string, ...interface{})) *models.User {
	var existing models.User
	err := models.DB.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		logf("User already exists: %s", user.Email)
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logf("Failed to load user %s: %v", user.Email, err)
		return nil
	}
	if err := models.DB.Create(&user).Error; err != nil {
		logf("Failed to create user %s: %v", user.Email, err)
		return nil
	}
	logf("Created user: %s", user.Email)
	return &user
}
