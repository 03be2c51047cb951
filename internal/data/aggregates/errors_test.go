package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"gorm.io/gorm"
)

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMapError_UniqueViolation(t *testing.T) {
	err := MapError("op", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}))
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: module.external_id")) {
		t.Fatalf("expected sqlite unique violation to be detected")
	}
}

func TestMapError_Retryable(t *testing.T) {
	err := MapError("op", &pgconn.PgError{Code: "40001"})
	if !errors.Is(err, ErrRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
}

func TestMapError_Passthrough(t *testing.T) {
	in := apierr.New(418, "teapot", errors.New("boom"))
	if out := MapError("op", in); out != error(in) {
		t.Fatalf("expected passthrough of api error")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("expected nil for nil")
	}
}
