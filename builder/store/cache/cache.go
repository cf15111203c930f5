package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	// RunWhileLocked runs fn only when the resource lock is free right
	// now, so concurrent callers skip the work instead of piling up.
	RunWhileLocked(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error
	// WaitLockToRun blocks until the resource lock is acquired, then
	// runs fn while holding it.
	WaitLockToRun(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error
}

type RedisConfig struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	MaxRetries   int
	MinIdleConns int
}

type Cache struct {
	core *redis.Client
	sync *redsync.Redsync
}

func NewCache(ctx context.Context, cfg RedisConfig) (cache RedisClient, err error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		MinIdleConns: cfg.MinIdleConns,
	})
	err = client.Ping(ctx).Err()
	if err != nil {
		err = fmt.Errorf("pinging Redis: %w", err)
		return
	}
	cache = &Cache{
		core: client,
		sync: redsync.New(goredis.NewPool(client)),
	}
	return
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.core.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.core.Get(ctx, key).Result()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.core.Del(ctx, keys...).Err()
}

func (c *Cache) RunWhileLocked(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error {
	mutex := c.sync.NewMutex(resourceName, redsync.WithExpiry(expiration), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("acquire lock %s: %w", resourceName, err)
	}
	defer c.release(ctx, mutex)
	return fn(ctx)
}

func (c *Cache) WaitLockToRun(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error {
	mutex := c.sync.NewMutex(resourceName, redsync.WithExpiry(expiration))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("wait for lock %s: %w", resourceName, err)
	}
	defer c.release(ctx, mutex)
	return fn(ctx)
}

func (c *Cache) release(ctx context.Context, mutex *redsync.Mutex) {
	// unlock with a fresh context so a canceled caller still releases
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	unlockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := mutex.UnlockContext(unlockCtx); err != nil {
		slog.Error("failed to release redis lock", slog.Any("name", mutex.Name()), slog.Any("error", err))
	}
}
