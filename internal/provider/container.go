package provider

import (
	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/repository"
	"github.com/orders-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	FeedLoader  *feed.Loader

	// Repositories
	UserRepo        repository.UserRepository
	ShopRepo        repository.ShopRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	ProductInfoRepo repository.ProductInfoRepository
	OrderRepo       repository.OrderRepository
	OrderItemRepo   repository.OrderItemRepository
	FeedSyncRunRepo repository.FeedSyncRunRepository

	// Services
	UserAuthService    *service.UserAuthService
	ProductService     *service.ProductService
	CatalogSyncService *service.CatalogSyncService
	FeedSyncService    *service.FeedSyncService
	SyncDispatcher     *service.SyncDispatcher
	ShopService        *service.ShopService
	OrderLineService   *service.OrderLineService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时同步任务退化为进程内执行
	queueClient, err := queue.NewClient(&cfg.Queue, cfg.Sync)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil, cfg.Sync)
	}

	return NewContainerWithDB(cfg, models.DB, queueClient, feed.NewLoader(cfg.Feed.ToFeedOptions()))
}

// NewContainerWithDB 使用指定的数据库与依赖组装容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client, loader *feed.Loader) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		FeedLoader:  loader,
	}
	c.initRepositories(db)
	c.initServices()
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ShopRepo = repository.NewShopRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductInfoRepo = repository.NewProductInfoRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderItemRepo = repository.NewOrderItemRepository(db)
	c.FeedSyncRunRepo = repository.NewFeedSyncRunRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config.UserJWT)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CatalogSyncService = service.NewCatalogSyncService(c.ProductRepo, c.CategoryRepo, c.ProductInfoRepo)
	c.FeedSyncService = service.NewFeedSyncService(c.ShopRepo, c.FeedSyncRunRepo, c.FeedLoader, c.CatalogSyncService, c.Config.Sync)
	c.SyncDispatcher = service.NewSyncDispatcher(c.QueueClient, c.FeedSyncService)
	c.ShopService = service.NewShopService(c.ShopRepo, c.UserRepo, c.SyncDispatcher)
	c.OrderLineService = service.NewOrderLineService(c.OrderRepo, c.OrderItemRepo, c.ShopRepo, c.ProductRepo, c.Config.Store.OperationTimeout())
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
