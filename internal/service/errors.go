package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 资源不存在
	ErrNotFound          = errors.New("not found")
	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrShopNotFound      = fmt.Errorf("shop %w", ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderLineNotFound = fmt.Errorf("order line %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrSyncRunNotFound   = fmt.Errorf("sync run %w", ErrNotFound)

	// ErrInvalidQuantity 数量非法（结果必须为正整数）
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrMissingReference 同步时引用的分类不存在，仅作为诊断类型使用
	ErrMissingReference = errors.New("missing reference")
	// ErrStoreUnavailable 存储暂时不可用，调用方可整体重试
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrShopNameExists     = errors.New("shop name already exists")
	ErrShopForbidden      = errors.New("shop belongs to another user")
	ErrShopOwnerNotSeller = errors.New("only shop users can own a shop")
	ErrShopInvalid        = errors.New("invalid shop input")
	ErrShopFeedMissing    = errors.New("shop has no feed location")
	ErrInvalidToken       = errors.New("invalid token")
)

// classifyStoreError 将超时、断连、锁冲突等瞬时错误归类为 ErrStoreUnavailable
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	if isTransientStoreError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func isTransientStoreError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "53300", pgErr.Code == "57P01", pgErr.Code == "57P03":
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy")
}

// isUniqueViolation 判断是否唯一约束冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}
