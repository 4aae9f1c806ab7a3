package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		m := NewMemory(5, time.Minute)

		for i := 0; i < 5; i++ {
			allowed, _, err := m.Allow(ctx, "caller")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, retryAfter, err := m.Allow(ctx, "caller")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Greater(t, retryAfter, time.Duration(0))
	})

	t.Run("buckets are independent per key", func(t *testing.T) {
		m := NewMemory(1, time.Minute)

		allowed, _, _ := m.Allow(ctx, "a")
		assert.True(t, allowed)
		allowed, _, _ = m.Allow(ctx, "a")
		assert.False(t, allowed)
		allowed, _, _ = m.Allow(ctx, "b")
		assert.True(t, allowed)
	})

	t.Run("window resets after the period", func(t *testing.T) {
		now := time.Now()
		m := NewMemory(1, time.Minute)
		m.now = func() time.Time { return now }

		allowed, _, _ := m.Allow(ctx, "caller")
		assert.True(t, allowed)
		allowed, _, _ = m.Allow(ctx, "caller")
		assert.False(t, allowed)

		now = now.Add(61 * time.Second)
		allowed, _, _ = m.Allow(ctx, "caller")
		assert.True(t, allowed)
	})

	t.Run("sweep drops expired windows", func(t *testing.T) {
		now := time.Now()
		m := NewMemory(1, time.Minute)
		m.now = func() time.Time { return now }

		m.Allow(ctx, "stale")
		now = now.Add(2 * time.Minute)
		m.Allow(ctx, "fresh")

		m.Sweep()

		m.mu.Lock()
		defer m.mu.Unlock()
		assert.NotContains(t, m.windows, "stale")
		assert.Contains(t, m.windows, "fresh")
	})
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, limit int) (*Redis, *miniredis.Miniredis) {
		t.Helper()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return NewRedis(client, limit, time.Minute), mr
	}

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		r, _ := setup(t, 5)

		for i := 0; i < 5; i++ {
			allowed, _, err := r.Allow(ctx, "caller")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, retryAfter, err := r.Allow(ctx, "caller")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Greater(t, retryAfter, time.Duration(0))
	})

	t.Run("window resets when the counter expires", func(t *testing.T) {
		r, mr := setup(t, 1)

		allowed, _, _ := r.Allow(ctx, "caller")
		assert.True(t, allowed)
		allowed, _, _ = r.Allow(ctx, "caller")
		assert.False(t, allowed)

		mr.FastForward(61 * time.Second)

		allowed, _, err := r.Allow(ctx, "caller")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestClientKey(t *testing.T) {
	newReq := func(headers map[string]string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/search?q=x", nil)
		req.Host = ""
		req.Header.Del("Host")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req
	}

	t.Run("prefers forwarded IP headers", func(t *testing.T) {
		req := newReq(map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
			"Authorization":   "Bearer abc",
		})
		assert.Equal(t, "203.0.113.7", ClientKey(req))
	})

	t.Run("falls back to X-Real-Ip", func(t *testing.T) {
		req := newReq(map[string]string{"X-Real-Ip": "198.51.100.4"})
		assert.Equal(t, "198.51.100.4", ClientKey(req))
	})

	t.Run("falls back to authorization", func(t *testing.T) {
		req := newReq(map[string]string{"Authorization": "Bearer abc"})
		assert.Equal(t, "Bearer abc", ClientKey(req))
	})

	t.Run("defaults to anonymous", func(t *testing.T) {
		req := newReq(nil)
		assert.Equal(t, "anonymous", ClientKey(req))
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLimitedRouter := func(l Limiter) *gin.Engine {
		r := gin.New()
		r.Use(Middleware(l))
		r.GET("/proxied", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
		return r
	}

	t.Run("rejects over-limit callers with 429", func(t *testing.T) {
		r := newLimitedRouter(NewMemory(2, time.Minute))

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/proxied", nil)
			req.Header.Set("X-Real-Ip", "198.51.100.4")
			last = httptest.NewRecorder()
			r.ServeHTTP(last, req)
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.NotEmpty(t, last.Header().Get("Retry-After"))
		assert.Contains(t, last.Body.String(), "rate limit exceeded")
	})

	t.Run("limiter backend failure lets the request through", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		limiter := NewRedis(client, 5, time.Minute)
		mr.Close()

		r := newLimitedRouter(limiter)
		req := httptest.NewRequest(http.MethodGet, "/proxied", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
