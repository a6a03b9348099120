package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestNotFoundFamily(t *testing.T) {
	for _, err := range []error{ErrOrderNotFound, ErrShopNotFound, ErrProductNotFound, ErrOrderLineNotFound, ErrUserNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%v should wrap ErrNotFound", err)
		}
	}
	if errors.Is(ErrOrderNotFound, ErrShopNotFound) {
		t.Fatalf("order not found should not match shop not found")
	}
}

func TestClassifyStoreError(t *testing.T) {
	transient := []error{
		context.DeadlineExceeded,
		fmt.Errorf("query: %w", driver.ErrBadConn),
		errors.New("database is locked (5) (SQLITE_BUSY)"),
		&pgconn.PgError{Code: "40P01"},
		&pgconn.PgError{Code: "08006"},
	}
	for _, err := range transient {
		if got := classifyStoreError(err); !errors.Is(got, ErrStoreUnavailable) {
			t.Fatalf("%v should be classified as store unavailable, got %v", err, got)
		}
		if got := classifyStoreError(err); !errors.Is(got, err) && !errors.Is(got, context.DeadlineExceeded) {
			t.Fatalf("classified error should keep its cause: %v", got)
		}
	}

	permanent := []error{
		gorm.ErrRecordNotFound,
		&pgconn.PgError{Code: "23505"},
		context.Canceled,
	}
	for _, err := range permanent {
		if got := classifyStoreError(err); errors.Is(got, ErrStoreUnavailable) {
			t.Fatalf("%v should not be classified as store unavailable", err)
		}
	}
	if classifyStoreError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}
