package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSource 通过 HTTP(S) 拉取数据源
type HTTPSource struct {
	client   *resty.Client
	maxBytes int64
}

// NewHTTPSource 创建 HTTP 数据源
func NewHTTPSource(timeout time.Duration, userAgent string, maxBytes int64) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = "orders-next-feed/1.0"
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/x-yaml, application/yaml, text/yaml, application/json, */*")
	return &HTTPSource{client: client, maxBytes: maxBytes}
}

// Fetch 下载数据源内容
func (s *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(location)
	if err != nil {
		return nil, unavailable(location, err)
	}
	body := resp.RawBody()
	defer body.Close()

	status := resp.StatusCode()
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return nil, notFound(location)
	case status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestTimeout:
		return nil, unavailable(location, fmt.Errorf("status %d", status))
	case status >= 400:
		return nil, malformed("feed request rejected at %s (status %d)", location, status)
	}
	raw, err := readLimited(body, s.maxBytes, location)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
}
