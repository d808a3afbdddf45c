// Package redis holds the redis-backed submission guard. A contract
// submission acquires a short-lived key before calling the store; a second
// identical submission while the first is in flight is refused instead of
// creating a duplicate record.
package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type SubmissionGuard interface {
	// Acquire reserves key for ttl. It reports false when the key is
	// already held by an in-flight submission.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees the key once the submission settled (either way).
	Release(ctx context.Context, key string) error
	Close() error
}

type redisGuard struct {
	log *logger.Logger
	rdb *goredis.Client
}

const guardPrefix = "contract:submit:"

// NewSubmissionGuard connects to REDIS_ADDR. Callers that run without redis
// should fall back to NewLocalGuard.
func NewSubmissionGuard(log *logger.Logger) (SubmissionGuard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisGuard{
		log: log.With("service", "RedisSubmissionGuard"),
		rdb: rdb,
	}, nil
}

func (g *redisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if g == nil || g.rdb == nil {
		return false, fmt.Errorf("submission guard not initialized")
	}
	ok, err := g.rdb.SetNX(ctx, guardPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (g *redisGuard) Release(ctx context.Context, key string) error {
	if g == nil || g.rdb == nil {
		return fmt.Errorf("submission guard not initialized")
	}
	return g.rdb.Del(ctx, guardPrefix+key).Err()
}

func (g *redisGuard) Close() error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Close()
}

// localGuard is the in-process fallback used when redis is not configured.
// It protects a single instance only, which matches how the console runs in
// development.
type localGuard struct {
	mu      sync.Mutex
	held    map[string]time.Time
	nowFunc func() time.Time
}

func NewLocalGuard() SubmissionGuard {
	return &localGuard{held: map[string]time.Time{}, nowFunc: time.Now}
}

func (g *localGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.nowFunc()
	if deadline, ok := g.held[key]; ok && now.Before(deadline) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

func (g *localGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

func (g *localGuard) Close() error { return nil }
