package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reviewpop/reviewpop-backend/config"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// Available reports whether a Redis client has been initialized. The
// cache and rate limiter degrade gracefully when it has not.
func Available() bool {
	return client != nil
}

// CacheWidget stores a serialized widget config under its code.
func CacheWidget(ctx context.Context, code, payload string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	key := fmt.Sprintf("widget:config:%s", code)
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache widget config", err, map[string]interface{}{
			"widget_code": code,
		})
		return err
	}
	return nil
}

// GetCachedWidget returns the cached widget payload for a code. The
// second return value is false on miss or any Redis failure; callers
// fall through to the database either way.
func GetCachedWidget(ctx context.Context, code string) (string, bool) {
	if client == nil {
		return "", false
	}
	key := fmt.Sprintf("widget:config:%s", code)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Error("Failed to read widget config cache", err, map[string]interface{}{
			"widget_code": code,
		})
		return "", false
	}
	return val, true
}

// InvalidateWidget drops the cached config for a code after an owner
// edit or delete.
func InvalidateWidget(ctx context.Context, code string) {
	if client == nil {
		return
	}
	key := fmt.Sprintf("widget:config:%s", code)
	if err := client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to invalidate widget config cache", err, map[string]interface{}{
			"widget_code": code,
		})
	}
}

// AllowSubmission applies a fixed-window rate limit of limit requests
// per minute per client IP. It fails open: when Redis is down or not
// configured, submissions are allowed.
func AllowSubmission(ctx context.Context, ip string, limit int) bool {
	if client == nil || limit <= 0 {
		return true
	}

	key := fmt.Sprintf("ratelimit:submit:%s:%s", ip, time.Now().Format("200601021504"))
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		logger.Error("Rate limit check failed, allowing request", err, map[string]interface{}{
			"ip": ip,
		})
		return true
	}
	if count == 1 {
		if err := client.Expire(ctx, key, time.Minute).Err(); err != nil {
			logger.Error("Failed to set rate limit window expiry", err, nil)
		}
	}
	return count <= int64(limit)
}
