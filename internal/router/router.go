package router

import (
	"fmt"
	"strings"

	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	publichandlers "github.com/orders-next/internal/http/handlers/public"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions("orders-api"))
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "orders"
	}
	redisClient := cache.Client()
	orderWriteRule := NewRateLimitRule(fmt.Sprintf("%s:rate:order_write", redisPrefix), cfg.Limits.OrderWrite)
	syncRequestRule := NewRateLimitRule(fmt.Sprintf("%s:rate:sync_request", redisPrefix), cfg.Limits.SyncRequest)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 目录只读接口无需登录
		apiV1.GET("/products", handler.ListProducts)
		apiV1.GET("/products/:id", handler.GetProduct)
		apiV1.GET("/shops/:id/categories", handler.ListShopCategories)

		authorized := apiV1.Group("")
		authorized.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			authorized.POST("/shops", handler.CreateShop)
			authorized.GET("/shops/:id", handler.GetShop)
			authorized.PUT("/shops/:id", handler.UpdateShop)
			authorized.POST("/shops/:id/sync", RateLimitMiddleware(redisClient, syncRequestRule, KeyByUserID), handler.RequestShopSync)
			authorized.GET("/shops/:id/sync-report", handler.GetShopSyncReport)
			authorized.GET("/shops/:id/sync-runs", handler.ListShopSyncRuns)

			orderWrite := RateLimitMiddleware(redisClient, orderWriteRule, KeyByUserID)
			authorized.GET("/orders", handler.GetOrderLines)
			authorized.POST("/orders", orderWrite, handler.UpsertOrderLine)
			authorized.PUT("/orders", orderWrite, handler.ReplaceOrderLine)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
