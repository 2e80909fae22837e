package app

import (
	"fmt"

	"github.com/yungbote/styleswipe-backend/internal/clients/redis"
	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type Clients struct {
	// SwipeLocker serialises swipe writes per user. It is Redis backed when
	// REDIS_ADDR is set, otherwise an in-process keyed mutex.
	SwipeLocker aggregates.Locker

	redisLocker *redis.SwipeLocker
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; swipe writes use an in-process lock")
		return Clients{SwipeLocker: aggregates.NewKeyedMutex()}, nil
	}
	locker, err := redis.NewSwipeLocker(log, redis.LockConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SwipeLockTTL,
		MaxWait:  cfg.SwipeLockWait,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis swipe locker: %w", err)
	}
	return Clients{SwipeLocker: locker, redisLocker: locker}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redisLocker != nil {
		_ = c.redisLocker.Close()
	}
}
