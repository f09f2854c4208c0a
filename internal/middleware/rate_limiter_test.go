package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(0.5, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _, err := l.Allow(ctx, "user:1"); !ok || err != nil {
			t.Fatalf("request %d denied: %v", i, err)
		}
	}
	ok, retryAfter, err := l.Allow(ctx, "user:1")
	if err != nil || ok {
		t.Fatalf("third request allowed=%v err=%v", ok, err)
	}
	if retryAfter <= 0 {
		t.Fatalf("retryAfter = %v, want positive", retryAfter)
	}

	if ok, _, _ := l.Allow(ctx, "user:2"); !ok {
		t.Fatal("a different key should have its own bucket")
	}
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	l := NewMemoryLimiter(1, 1)
	ctx := context.Background()
	l.Allow(ctx, "stale")
	l.Allow(ctx, "fresh")

	l.mu.Lock()
	l.entries["stale"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	l.Cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries["stale"]; ok {
		t.Error("stale limiter was not dropped")
	}
	if _, ok := l.entries["fresh"]; !ok {
		t.Error("fresh limiter was dropped")
	}
}

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	keys       []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retryAfter, s.err
}

func newLimitedRouter(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	})
	r.POST("/limited", RateLimit(l, CallerKey("user_id")), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRateLimit_Denied(t *testing.T) {
	stub := &stubLimiter{retryAfter: 1500 * time.Millisecond}
	r := newLimitedRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.Header.Set("X-User-ID", "pilot-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if len(stub.keys) != 1 || stub.keys[0] != "user:pilot-7" {
		t.Errorf("keys = %v", stub.keys)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	stub := &stubLimiter{err: errors.New("redis down")}
	r := newLimitedRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want request to pass", w.Code)
	}
	if len(stub.keys) != 1 || stub.keys[0] != "ip:203.0.113.9" {
		t.Errorf("keys = %v", stub.keys)
	}
}

func TestRateLimit_Allowed(t *testing.T) {
	r := newLimitedRouter(&stubLimiter{allowed: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/limited", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}
