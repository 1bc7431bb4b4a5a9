package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Guard decides which replica runs a tick. Acquire reports true for exactly
// one caller per job and slot.
type Guard interface {
	Acquire(ctx context.Context, job string, slot time.Time, ttl time.Duration) (bool, error)
}

// NopGuard lets every tick through. It is used when a single replica runs.
type NopGuard struct{}

func (NopGuard) Acquire(context.Context, string, time.Time, time.Duration) (bool, error) {
	return true, nil
}

// SetNXer is the subset of *redis.Client the guard needs.
type SetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard claims a tick slot with SET NX so replicas sharing a redis
// instance run each slot once.
type RedisGuard struct {
	rdb    SetNXer
	prefix string
	logger *zap.Logger
}

func NewRedisGuard(rdb SetNXer, prefix string, logger *zap.Logger) *RedisGuard {
	return &RedisGuard{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.Named("tick_guard"),
	}
}

func (g *RedisGuard) key(job string, slot time.Time) string {
	return fmt.Sprintf("%s%s:tick:%d", g.prefix, job, slot.Unix())
}

// Acquire returns an error when redis is unreachable; the caller decides
// whether to run anyway.
func (g *RedisGuard) Acquire(ctx context.Context, job string, slot time.Time, ttl time.Duration) (bool, error) {
	key := g.key(job, slot)
	ok, err := g.rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	if !ok {
		g.logger.Info("tick already claimed by another replica", zap.String("key", key))
	}
	return ok, nil
}
