package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitType string

const (
	RateLimitTypeDefault   RateLimitType = "default"
	RateLimitTypePublic    RateLimitType = "public"
	RateLimitTypeBooking   RateLimitType = "booking"
	RateLimitTypePayment   RateLimitType = "payment"
	RateLimitTypeWizard    RateLimitType = "wizard"
	RateLimitTypeRecording RateLimitType = "recording"
	RateLimitTypeHealth    RateLimitType = "health"
)

// Config holds per-type request budgets for one window
type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	BookingRequests int           `json:"booking_requests"`
	PaymentRequests int           `json:"payment_requests"`
	WizardRequests  int           `json:"wizard_requests"`
	RecordingChunks int           `json:"recording_chunks"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Limiter decides whether a client may make another request
type Limiter interface {
	IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error)
}

// RateLimiter handles rate limiting using Redis, shared across instances
type RateLimiter struct {
	client *redis.Client
	config *Config
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// IsAllowed checks if request is allowed
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.config.getLimit(limitType)
	if !r.config.Enabled || r.config.isWhitelisted(clientIP) {
		return r.config.unlimited(limit), nil
	}

	key := fmt.Sprintf("branchdesk:ratelimit:%s:%s", clientIP, limitType)
	return r.checkLimit(ctx, key, limit)
}

// sliding window over a sorted set, evaluated atomically
const slidingWindowScript = `
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)
	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current_count + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)

	return {current_count + 1, limit - current_count - 1}
`

// performs the actual rate limit check using sliding window
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-r.config.WindowDuration)

	result, err := r.client.Eval(ctx, slidingWindowScript, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		fmt.Sprintf("%d", now.UnixNano()),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	currentCount, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unexpected redis response types %T, %T", values[0], values[1])
	}

	return &Result{
		Allowed:   int(currentCount) <= limit,
		Limit:     limit,
		Remaining: int(remaining),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

// LocalLimiter is the single-instance fallback used when Redis is not
// configured: one token bucket per client and limit type.
type LocalLimiter struct {
	config   *Config
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLocalLimiter(config *Config) *LocalLimiter {
	return &LocalLimiter{
		config:   config,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *LocalLimiter) IsAllowed(_ context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := l.config.getLimit(limitType)
	if !l.config.Enabled || l.config.isWhitelisted(clientIP) {
		return l.config.unlimited(limit), nil
	}

	limiter := l.getLimiter(clientIP+"|"+string(limitType), limit)
	allowed := limiter.Allow()

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(int(limiter.Tokens()), 0),
		ResetTime: time.Now().Add(l.config.WindowDuration).Unix(),
	}, nil
}

func (l *LocalLimiter) getLimiter(key string, limit int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		every := l.config.WindowDuration / time.Duration(max(limit, 1))
		limiter = rate.NewLimiter(rate.Every(every), limit)
		l.limiters[key] = limiter
	}
	return limiter
}

func (c *Config) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return c.PublicRequests
	case RateLimitTypeBooking:
		return c.BookingRequests
	case RateLimitTypePayment:
		return c.PaymentRequests
	case RateLimitTypeWizard:
		return c.WizardRequests
	case RateLimitTypeRecording:
		return c.RecordingChunks
	case RateLimitTypeHealth:
		return c.HealthRequests
	default:
		return c.DefaultRequests
	}
}

func (c *Config) isWhitelisted(ip string) bool {
	for _, whitelistedIP := range c.WhitelistedIPs {
		if ip == whitelistedIP {
			return true
		}
	}
	return false
}

func (c *Config) unlimited(limit int) *Result {
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
		ResetTime: time.Now().Add(c.WindowDuration).Unix(),
	}
}
