package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"verkefnalisti/internal/config"
	"verkefnalisti/internal/models"
	"verkefnalisti/pkg/logger"
)

const todosCacheKey = "todos:list"

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client, or nil when REDIS_URL is unset.
// The cache is optional; every caller degrades to the database path.
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		if cfg.RedisURL == "" {
			return
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err)
			return
		}
		client = redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "Redis ping failed; cache disabled until reachable", "error", err)
		}
		logger.Info(ctx, "Redis client initialized")
	})
	return client
}

// GetTodos reads the todo list from Redis. Returns (nil, false) on miss,
// error, or when the cache is disabled.
func GetTodos(ctx context.Context) ([]models.Todo, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, todosCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	return todos, true
}

// SetTodos writes the todo list to Redis with the configured TTL.
func SetTodos(ctx context.Context, todos []models.Todo) {
	c := Client(ctx)
	if c == nil {
		return
	}
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	ttl := time.Duration(config.Get().CacheTTL) * time.Second
	if err := c.Set(ctx, todosCacheKey, b, ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// InvalidateTodos deletes the cached list so the next read goes to the
// database. Called synchronously after every successful mutation, before the
// redirect is written.
func InvalidateTodos(ctx context.Context) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, todosCacheKey).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err)
	}
}
