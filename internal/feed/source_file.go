package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSource 本地文件数据源，相对路径基于 baseDir 解析
type FileSource struct {
	baseDir  string
	maxBytes int64
}

// NewFileSource 创建本地文件数据源
func NewFileSource(baseDir string, maxBytes int64) *FileSource {
	return &FileSource{baseDir: baseDir, maxBytes: maxBytes}
}

// Fetch 读取文件内容
func (s *FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(location, err)
	}
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path)
		}
		return nil, unavailable(location, err)
	}
	defer f.Close()
	return readLimited(f, s.maxBytes, location)
}

func (s *FileSource) resolve(location string) (string, error) {
	path := filepath.Clean(strings.TrimPrefix(location, "file://"))
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path, nil
	}
	if path == ".." || strings.HasPrefix(path, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes feed directory: %s", ErrUnsupportedLocation, location)
	}
	return filepath.Join(s.baseDir, path), nil
}

func readLimited(r io.Reader, maxBytes int64, location string) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, unavailable(location, err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, malformed("feed exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
