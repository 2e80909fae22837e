package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

// ErrLockTimeout is returned when a lock could not be taken within MaxWait.
var ErrLockTimeout = errors.New("redis lock: wait timed out")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type LockConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL bounds how long a crashed holder can block others.
	TTL       time.Duration
	MaxWait   time.Duration
	RetryStep time.Duration
}

// SwipeLocker is a SET NX PX lock shared by every API replica.
type SwipeLocker struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	cfg LockConfig
}

func NewSwipeLocker(log *logger.Logger, cfg LockConfig) (*SwipeLocker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newSwipeLocker(log, rdb, cfg), nil
}

func newSwipeLocker(log *logger.Logger, rdb goredis.UniversalClient, cfg LockConfig) *SwipeLocker {
	if cfg.Prefix == "" {
		cfg.Prefix = "styleswipe:lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 5 * time.Second
	}
	if cfg.RetryStep <= 0 {
		cfg.RetryStep = 25 * time.Millisecond
	}
	return &SwipeLocker{
		log: log.With("client", "RedisSwipeLocker"),
		rdb: rdb,
		cfg: cfg,
	}
}

func (l *SwipeLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l == nil || l.rdb == nil {
		return nil, fmt.Errorf("redis locker not initialized")
	}
	fullKey := l.cfg.Prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.cfg.MaxWait)

	for {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(fullKey, token), nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		timer := time.NewTimer(l.cfg.RetryStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *SwipeLocker) releaser(fullKey, token string) func() {
	return func() {
		// The caller's ctx may already be cancelled; release on our own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{fullKey}, token).Err(); err != nil {
			l.log.Warn("redis lock release failed", "key", fullKey, "error", err)
		}
	}
}

func (l *SwipeLocker) Ping(ctx context.Context) error {
	if l == nil || l.rdb == nil {
		return fmt.Errorf("redis locker not initialized")
	}
	return l.rdb.Ping(ctx).Err()
}

func (l *SwipeLocker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
