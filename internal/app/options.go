package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"    // API 与 worker 同进程
	ModeAPI    = "api"    // 仅 HTTP API
	ModeWorker = "worker" // 仅队列消费者与定时刷新
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	opts.Mode = normalizeMode(opts.Mode)
	return opts
}

// normalizeMode 忽略大小写与空白，空值视为 all
func normalizeMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return ModeAll
	}
	return mode
}

func validateMode(mode string) error {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func servesAPI(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

// servesWorker 队列消费与定时刷新所在的进程
func servesWorker(mode string) bool {
	return mode == ModeAll || mode == ModeWorker
}
