package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"gorm.io/gorm"
)

// ErrRetryable marks transient failures such as serialization conflicts.
var ErrRetryable = errors.New("retryable")

// IsUniqueViolation reports whether err is a unique-constraint failure on
// either Postgres or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}

// MapError maps infrastructure failures onto the apierr sentinels so the HTTP
// layer can pick a status.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, apierr.ErrNotFound),
		errors.Is(err, apierr.ErrConflict),
		errors.Is(err, apierr.ErrInvalidArgument),
		errors.Is(err, apierr.ErrForbidden),
		errors.Is(err, apierr.ErrUnauthorized),
		errors.Is(err, ErrRetryable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w: %w", op, apierr.ErrNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, apierr.ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23503":
			return fmt.Errorf("%s: %w: %w", op, apierr.ErrInvalidArgument, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err) // serialization/deadlock/lock_not_available
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
