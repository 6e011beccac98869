package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fairlaunch/curve-registry/internal/adapter"
	"github.com/fairlaunch/curve-registry/internal/logger"
)

// Config holds the rate limiter settings
type Config struct {
	// RequestsPerSecond is the sustained per-key request rate
	RequestsPerSecond int
	// Burst is the maximum instantaneous burst per key
	Burst int
	// EnableLocalFallback keeps limiting in-process when Redis is unreachable
	EnableLocalFallback bool
}

// Decision is the outcome of a rate limit check
type Decision struct {
	// Allowed reports whether the request may proceed
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying a denied request
	RetryAfter time.Duration
}

// Limiter enforces a per-key request rate across API instances. Limits are
// tracked in Redis so every instance sees the same budget; when Redis is
// unreachable each instance falls back to a local per-key limiter.
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// Allow checks whether one request for the given key may proceed
	Allow(ctx context.Context, key string) (Decision, error)

	// Close releases the underlying Redis connection
	Close() error
}

// redisRetryInterval is how long the limiter waits after a Redis failure
// before probing the distributed path again.
const redisRetryInterval = 30 * time.Second

type limiter struct {
	config         Config
	redis          adapter.RedisClient
	distributed    adapter.RedisRateLimiter
	redisAvailable atomic.Bool
	retryAt        atomic.Int64

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// New creates a limiter backed by the given Redis client
func New(cfg Config, rc adapter.RedisClient) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Test Redis connectivity
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx).Err(); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, rate limiting locally", zap.Error(err))
	}

	l := &limiter{
		config:      cfg,
		redis:       rc,
		distributed: rc.NewRateLimiter(),
		local:       make(map[string]*rate.Limiter),
	}
	l.redisAvailable.Store(redisAvailable)
	return l, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %d", cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	return nil
}

// Allow checks whether one request for the given key may proceed
func (l *limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.redisAvailable.Load() || l.shouldProbeRedis() {
		decision, err := l.allowDistributed(ctx, key)
		if err == nil {
			l.redisAvailable.Store(true)
			return decision, nil
		}
		if !l.config.EnableLocalFallback {
			return Decision{}, err
		}

		// Degrade to local limiting until the next probe succeeds
		l.redisAvailable.Store(false)
		l.retryAt.Store(time.Now().Add(redisRetryInterval).UnixNano())
		logger.Warn("Redis rate limit check failed, falling back to local limiting",
			zap.Error(err),
			zap.String("key", key),
		)
	}

	return l.allowLocal(key), nil
}

func (l *limiter) shouldProbeRedis() bool {
	return time.Now().UnixNano() >= l.retryAt.Load()
}

func (l *limiter) allowDistributed(ctx context.Context, key string) (Decision, error) {
	res, err := l.distributed.Allow(ctx, "ratelimit:"+key, redis_rate.Limit{
		Rate:   l.config.RequestsPerSecond,
		Burst:  l.config.Burst,
		Period: time.Second,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("distributed rate limit check failed: %w", err)
	}

	return Decision{
		Allowed:    res.Allowed > 0,
		RetryAfter: res.RetryAfter,
	}, nil
}

func (l *limiter) allowLocal(key string) Decision {
	l.mu.Lock()
	lim, ok := l.local[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)
		l.local[key] = lim
	}
	l.mu.Unlock()

	if lim.Allow() {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: time.Second}
}

// Close releases the underlying Redis connection
func (l *limiter) Close() error {
	return l.redis.Close()
}
