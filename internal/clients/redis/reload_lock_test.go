package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

func TestNewLockerFromEnvDisabled(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	l, err := NewLockerFromEnv(logger.Nop())
	if err != nil {
		t.Fatalf("NewLockerFromEnv: %v", err)
	}
	if l != nil {
		t.Fatalf("expected nil locker without REDIS_ADDR")
	}
}

// Runs against a live Redis when REDIS_TEST_ADDR is set.
func TestLockerExclusive(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	l := NewLocker(logger.Nop(), rdb, "test:"+uuid.NewString()+":")
	defer l.Close()

	ctx := context.Background()
	release, err := l.Acquire(ctx, "reload", time.Minute)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := l.Acquire(ctx, "reload", time.Minute); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("second Acquire: expected ErrLockHeld, got %v", err)
	}
	release()
	again, err := l.Acquire(ctx, "reload", time.Minute)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}
