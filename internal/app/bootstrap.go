package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/router"
	"github.com/orders-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode = normalizeMode(mode)
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if servesAPI(mode) {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if servesWorker(mode) {
		workerServices, err := buildWorkerServices(cfg, container, mode)
		if err != nil {
			container.Close()
			return nil, err
		}
		services = append(services, workerServices...)
	}

	if len(services) == 0 {
		container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

// buildWorkerServices 队列消费者与定时刷新；all 模式下队列关闭时同步任务在 API 进程内执行
func buildWorkerServices(cfg *config.Config, container *provider.Container, mode string) ([]Service, error) {
	var services []Service
	if cfg.Queue.Enabled {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeWorker {
		return nil, errors.New("worker mode requires queue.enabled")
	} else {
		logger.Warnw("app_queue_disabled", "fallback", "inline_sync")
	}

	if strings.TrimSpace(cfg.Sync.RefreshCron) != "" {
		scheduler, err := worker.NewScheduler(cfg.Sync.RefreshCron, container.ShopService)
		if err != nil {
			return nil, fmt.Errorf("invalid sync.refresh_cron: %w", err)
		}
		services = append(services, scheduler)
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
