package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the holder of key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimit rejects requests over the limit with 429. Limiter errors let the request through.
func RateLimit(l Limiter, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := l.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			log.Printf("⚠️ Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// CallerKey keys on the authenticated user id, falling back to the client IP.
func CallerKey(contextKey string) func(c *gin.Context) string {
	return func(c *gin.Context) string {
		if id := c.GetString(contextKey); id != "" {
			return "user:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

// MemoryLimiter is a token bucket per key, for single-instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()

	m.mu.Lock()
	ent, ok := m.entries[key]
	if !ok {
		ent = &limiterEntry{lim: rate.NewLimiter(m.rps, m.burst)}
		m.entries[key] = ent
	}
	ent.lastSeen = now
	m.mu.Unlock()

	res := ent.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// Cleanup drops limiters idle for longer than the TTL.
func (m *MemoryLimiter) Cleanup() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, ent := range m.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(m.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is done.
func (m *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

// RedisLimiter is a sliding-window limit shared by every API instance.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: "rate_limit:"}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := r.prefix + key
	now := time.Now()
	windowStart := now.Add(-r.window)

	pipe := r.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixMilli(), 10))
	card := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if card.Val() >= r.limit {
		retryAfter := r.window
		if entries := oldest.Val(); len(entries) > 0 {
			resetAt := time.UnixMilli(int64(entries[0].Score)).Add(r.window)
			retryAfter = resetAt.Sub(now)
		}
		return false, retryAfter, nil
	}

	pipe = r.rdb.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, redisKey, r.window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	return true, 0, nil
}

// ConnectRedis returns a client once the server answers PING.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
