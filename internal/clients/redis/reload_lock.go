package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/dsaquest-backend/internal/platform/envutil"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = errors.New("lock held by another process")

// releaseScript deletes the key only while it still carries our token, so an
// expired lock re-acquired elsewhere is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short-lived exclusive locks across processes.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
	Close() error
}

type locker struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

// NewLockerFromEnv returns (nil, nil) when REDIS_ADDR is unset.
func NewLockerFromEnv(log *logger.Logger) (Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewLocker(log, rdb, envutil.String("REDIS_LOCK_PREFIX", "dsaquest:lock:")), nil
}

func NewLocker(log *logger.Logger, rdb goredis.UniversalClient, prefix string) Locker {
	return &locker{log: log.With("service", "RedisLocker"), rdb: rdb, prefix: prefix}
}

func (l *locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l == nil || l.rdb == nil {
		return nil, fmt.Errorf("redis locker not initialized")
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	full := l.prefix + key

	ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SET NX %s: %w", full, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err(); err != nil {
			l.log.Warn("Failed to release lock", "key", full, "error", err)
		}
	}
	return release, nil
}

func (l *locker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
