package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument 数据源结构不符合约定，本次同步终止且不可重试
	ErrMalformedDocument = errors.New("malformed feed document")
	// ErrFeedUnavailable 数据源暂时不可读取，可重试
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrFeedNotFound 数据源地址指向的内容不存在
	ErrFeedNotFound = errors.New("feed not found")
	// ErrUnsupportedLocation 数据源地址协议不支持
	ErrUnsupportedLocation = errors.New("unsupported feed location")
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}

func unavailable(location string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, location, cause)
}

func notFound(location string) error {
	return fmt.Errorf("%w: %s", ErrFeedNotFound, location)
}
