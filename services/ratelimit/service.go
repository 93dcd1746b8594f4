package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Decision is the outcome of a single attempt against a fixed window
type Decision struct {
	Allowed    bool
	Count      int64
	Limit      int64
	RetryAfter time.Duration
}

// Limiter counts attempts per scope inside a fixed window
type Limiter interface {
	Allow(ctx context.Context, scope string) (Decision, error)
	Reset(ctx context.Context, scope string) error
}

type disabled struct{}

func (disabled) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}

func (disabled) Reset(context.Context, string) error { return nil }

// Disabled allows every attempt
var Disabled Limiter = disabled{}

// RedisLimiter implements Limiter with INCR and EXPIRE on a per-scope key.
// Redis failures fail open: the attempt is allowed and the error returned.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	logger *zap.Logger
}

// Config holds the limiter settings
type Config struct {
	Prefix string
	Limit  int
	Window time.Duration
}

// NewRedisLimiter creates a limiter on an existing client
func NewRedisLimiter(client *redis.Client, cfg Config, logger *zap.Logger) *RedisLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return &RedisLimiter{
		client: client,
		prefix: cfg.Prefix,
		limit:  int64(cfg.Limit),
		window: cfg.Window,
		logger: logger,
	}
}

// NewRedisLimiterFromURL parses a redis:// URL and creates a limiter
func NewRedisLimiterFromURL(redisURL string, cfg Config, logger *zap.Logger) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisLimiter(redis.NewClient(opt), cfg, logger), nil
}

// Ping checks connectivity
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the client
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// Allow records one attempt for scope and reports whether it is within the limit
func (l *RedisLimiter) Allow(ctx context.Context, scope string) (Decision, error) {
	key := l.key(scope)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable, allowing attempt", zap.Error(err))
		return Decision{Allowed: true, Limit: l.limit}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incr.Val()
	remaining := ttl.Val()
	// first hit in the window, or a key left without expiry
	if count == 1 || remaining < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("failed to set rate limit window", zap.Error(err))
		}
		remaining = l.window
	}

	d := Decision{
		Allowed: count <= l.limit,
		Count:   count,
		Limit:   l.limit,
	}
	if !d.Allowed {
		d.RetryAfter = remaining
	}
	return d, nil
}

// Reset clears the counter for scope
func (l *RedisLimiter) Reset(ctx context.Context, scope string) error {
	if err := l.client.Del(ctx, l.key(scope)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}

func (l *RedisLimiter) key(scope string) string {
	return l.prefix + ":" + scope
}
