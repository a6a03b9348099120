package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const defaultMaxBytes int64 = 20 << 20

// Options 数据源加载配置
type Options struct {
	BaseDir     string
	HTTPTimeout time.Duration
	MaxBytes    int64
	UserAgent   string
	S3          S3Options
}

// Source 按地址读取原始数据源内容
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Loader 根据地址协议选择数据源并解析为 Document
type Loader struct {
	file Source
	http Source
	s3   Source
}

// NewLoader 创建数据源加载器
func NewLoader(opts Options) *Loader {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	return &Loader{
		file: NewFileSource(opts.BaseDir, opts.MaxBytes),
		http: NewHTTPSource(opts.HTTPTimeout, opts.UserAgent, opts.MaxBytes),
		s3:   NewS3Source(opts.S3, opts.MaxBytes),
	}
}

// NewLoaderWithSources 使用自定义数据源创建加载器（nil 表示不支持该协议）
func NewLoaderWithSources(file, http, s3 Source) *Loader {
	return &Loader{file: file, http: http, s3: s3}
}

// Load 读取并解析数据源
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	source, err := l.route(location)
	if err != nil {
		return nil, err
	}
	raw, err := source.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func (l *Loader) route(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)
	}
	scheme := ""
	if u, err := url.Parse(location); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	var source Source
	switch scheme {
	case "", "file":
		source = l.file
	case "http", "https":
		source = l.http
	case "s3":
		source = l.s3
	}
	if source == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
	}
	return source, nil
}
