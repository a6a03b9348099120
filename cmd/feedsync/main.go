package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/queue"
)

func main() {
	var shopID uint
	var file string
	flag.UintVar(&shopID, "shop", 0, "店铺 ID")
	flag.StringVar(&file, "file", "", "覆盖店铺登记的数据源地址（本地文件、http(s):// 或 s3://）")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions("orders-feedsync"))
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if shopID == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 同步在当前进程内执行，不经过队列
	queueClient, _ := queue.NewClient(nil, cfg.Sync)
	container := provider.NewContainerWithDB(cfg, models.DB, queueClient, feed.NewLoader(cfg.Feed.ToFeedOptions()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, syncErr := container.FeedSyncService.RunShopSyncFrom(ctx, shopID, file, constants.SyncTriggerCLI)
	if run != nil {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(run); err != nil {
			stdLog.Printf("输出同步报告失败: %v", err)
		}
	}
	if syncErr != nil {
		stdLog.Printf("同步失败: %v", syncErr)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
