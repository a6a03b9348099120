package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/orders-next/internal/logger"

	"github.com/robfig/cron/v3"
)

// ShopRefresher 为所有登记了数据源的店铺投递定时同步
type ShopRefresher interface {
	ScheduleRefresh(ctx context.Context) (int, error)
}

// Scheduler 定时刷新店铺数据源
type Scheduler struct {
	spec      string
	cron      *cron.Cron
	refresher ShopRefresher
}

// NewScheduler 创建定时刷新服务，spec 支持秒级表达式
func NewScheduler(spec string, refresher ShopRefresher) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("refresh cron is empty")
	}
	if refresher == nil {
		return nil, errors.New("refresher is nil")
	}
	cronLogger := cron.PrintfLogger(logger.StdLogger())
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	s := &Scheduler{spec: spec, cron: c, refresher: refresher}
	if _, err := c.AddFunc(spec, s.refresh); err != nil {
		return nil, err
	}
	return s, nil
}

// Name 服务名称
func (s *Scheduler) Name() string {
	return "scheduler"
}

// Start 启动定时任务并阻塞到 ctx 结束
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	logger.Infow("scheduler_start", "spec", s.spec)
	s.cron.Start()
	<-ctx.Done()
	return nil
}

// Stop 停止定时任务，等待正在执行的刷新结束
func (s *Scheduler) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *Scheduler) refresh() {
	count, err := s.refresher.ScheduleRefresh(context.Background())
	if err != nil {
		logger.Warnw("scheduler_refresh_failed", "error", err)
		return
	}
	logger.Infow("scheduler_refresh_dispatched", "shops", count)
}
