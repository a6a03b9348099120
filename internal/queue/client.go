package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
)

// SyncTaskOptions 同步任务的重试与去重参数
type SyncTaskOptions struct {
	MaxRetry  int
	Timeout   time.Duration
	UniqueTTL time.Duration
}

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
	syncOpts     SyncTaskOptions
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig, syncCfg config.SyncConfig) (*Client, error) {
	syncOpts := SyncTaskOptions{
		MaxRetry:  syncCfg.MaxRetry,
		Timeout:   syncCfg.Timeout(),
		UniqueTTL: syncCfg.UniqueTTL(),
	}
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue, syncOpts: syncOpts}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
		syncOpts:     syncOpts,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCatalogSync 推送店铺目录同步任务，去重窗口内的重复推送视为成功
func (c *Client) EnqueueCatalogSync(payload CatalogSyncPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCatalogSyncTask(payload)
	if err != nil {
		return err
	}
	options := append(c.catalogSyncOptions(), opts...)
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func (c *Client) catalogSyncOptions() []asynq.Option {
	options := []asynq.Option{asynq.Queue(c.defaultQueue)}
	if c.syncOpts.MaxRetry >= 0 {
		options = append(options, asynq.MaxRetry(c.syncOpts.MaxRetry))
	}
	if c.syncOpts.Timeout > 0 {
		options = append(options, asynq.Timeout(c.syncOpts.Timeout))
	}
	if c.syncOpts.UniqueTTL > 0 {
		options = append(options, asynq.Unique(c.syncOpts.UniqueTTL))
	}
	return options
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
