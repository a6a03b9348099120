package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/orders-next/internal/feed"
	"github.com/orders-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Store    StoreConfig    `mapstructure:"store"`
	Limits   LimitsConfig   `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions(service string) logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
		Service:    service,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// FeedConfig 供应商数据源配置
type FeedConfig struct {
	BaseDir            string       `mapstructure:"base_dir"`             // 本地文件根目录
	HTTPTimeoutSeconds int          `mapstructure:"http_timeout_seconds"` // HTTP 拉取超时
	MaxBytes           int64        `mapstructure:"max_bytes"`            // 单个文件大小上限
	UserAgent          string       `mapstructure:"user_agent"`
	S3                 FeedS3Config `mapstructure:"s3"`
}

// FeedS3Config S3 数据源配置
type FeedS3Config struct {
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// ToFeedOptions 转换为数据源加载配置
func (c FeedConfig) ToFeedOptions() feed.Options {
	return feed.Options{
		BaseDir:     c.BaseDir,
		HTTPTimeout: c.HTTPTimeout(),
		MaxBytes:    c.MaxBytes,
		UserAgent:   c.UserAgent,
		S3: feed.S3Options{
			Region:       c.S3.Region,
			Endpoint:     c.S3.Endpoint,
			AccessKey:    c.S3.AccessKey,
			SecretKey:    c.S3.SecretKey,
			UsePathStyle: c.S3.UsePathStyle,
		},
	}
}

// HTTPTimeout 返回 HTTP 拉取超时
func (c FeedConfig) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// SyncConfig 目录同步任务配置
type SyncConfig struct {
	TimeoutSeconds        int    `mapstructure:"timeout_seconds"`
	MaxRetry              int    `mapstructure:"max_retry"`
	UniqueTTLSeconds      int    `mapstructure:"unique_ttl_seconds"`
	RefreshCron           string `mapstructure:"refresh_cron"` // 为空表示不定时刷新
	ReportCacheTTLSeconds int    `mapstructure:"report_cache_ttl_seconds"`
	RunHistoryLimit       int    `mapstructure:"run_history_limit"`
}

// Timeout 返回单次同步超时
func (c SyncConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UniqueTTL 返回同一店铺同步任务的去重窗口
func (c SyncConfig) UniqueTTL() time.Duration {
	if c.UniqueTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.UniqueTTLSeconds) * time.Second
}

// ReportCacheTTL 返回同步报告缓存时长
func (c SyncConfig) ReportCacheTTL() time.Duration {
	if c.ReportCacheTTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ReportCacheTTLSeconds) * time.Second
}

// StoreConfig 存储调用配置
type StoreConfig struct {
	OperationTimeoutMS int `mapstructure:"operation_timeout_ms"`
}

// OperationTimeout 返回单次存储操作超时，0 表示沿用调用方上下文
func (c StoreConfig) OperationTimeout() time.Duration {
	if c.OperationTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.OperationTimeoutMS) * time.Millisecond
}

// RateLimitRuleConfig 单条限流规则，窗口或次数为 0 表示关闭
type RateLimitRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// LimitsConfig 写接口限流配置
type LimitsConfig struct {
	OrderWrite  RateLimitRuleConfig `mapstructure:"order_write"`
	SyncRequest RateLimitRuleConfig `mapstructure:"sync_request"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/orders.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "orders")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("feed.base_dir", "./feeds")
	v.SetDefault("feed.http_timeout_seconds", 30)
	v.SetDefault("feed.max_bytes", 20971520)
	v.SetDefault("feed.user_agent", "orders-next-feed/1.0")
	v.SetDefault("feed.s3.region", "us-east-1")
	v.SetDefault("feed.s3.endpoint", "")
	v.SetDefault("feed.s3.access_key", "")
	v.SetDefault("feed.s3.secret_key", "")
	v.SetDefault("feed.s3.use_path_style", false)
	v.SetDefault("sync.timeout_seconds", 600)
	v.SetDefault("sync.max_retry", 3)
	v.SetDefault("sync.unique_ttl_seconds", 60)
	v.SetDefault("sync.refresh_cron", "")
	v.SetDefault("sync.report_cache_ttl_seconds", 86400)
	v.SetDefault("sync.run_history_limit", 20)
	v.SetDefault("store.operation_timeout_ms", 5000)
	v.SetDefault("rate_limit.order_write.window_seconds", 60)
	v.SetDefault("rate_limit.order_write.max_requests", 120)
	v.SetDefault("rate_limit.sync_request.window_seconds", 60)
	v.SetDefault("rate_limit.sync_request.max_requests", 5)
}
