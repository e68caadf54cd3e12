package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orderbridge/backend/internal/interfaces/http/dto"
)

func newTestRateLimiter(qps float64, burst int) (*RateLimiter, *time.Time) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(qps, burst)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to burst then refills", func(t *testing.T) {
		rl, clock := newTestRateLimiter(1, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
		}
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.Equal(t, 0, rl.Remaining("10.0.0.1"))

		*clock = clock.Add(time.Second)
		assert.True(t, rl.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl, _ := newTestRateLimiter(1, 1)

		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("unknown key has full burst", func(t *testing.T) {
		rl, _ := newTestRateLimiter(5, 10)
		assert.Equal(t, 10, rl.Remaining("nobody"))
	})

	t.Run("zero burst defaults from qps", func(t *testing.T) {
		assert.Equal(t, 3, NewRateLimiter(2.5, 0).Burst())
		assert.Equal(t, 1, NewRateLimiter(0.2, 0).Burst())
	})

	t.Run("sweep drops idle buckets", func(t *testing.T) {
		rl, clock := newTestRateLimiter(1, 1)
		rl.Allow("old")
		*clock = clock.Add(time.Hour)
		rl.Allow("fresh")

		assert.Equal(t, 1, rl.Sweep(time.Minute))
		assert.Len(t, rl.clients, 1)
		assert.Contains(t, rl.clients, "fresh")
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(rl *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(rl))
		router.POST("/api/v1/channable/orders", func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return router
	}
	send := func(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channable/orders", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("sets headers and rejects over limit", func(t *testing.T) {
		rl, _ := newTestRateLimiter(1, 2)
		router := newRouter(rl)

		w := send(router, "192.168.1.100:12345")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		assert.Equal(t, http.StatusCreated, send(router, "192.168.1.100:12345").Code)

		w = send(router, "192.168.1.100:12345")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)

		assert.Equal(t, http.StatusCreated, send(router, "192.168.1.200:12345").Code)
	})

	t.Run("nil limiter disables limiting", func(t *testing.T) {
		router := newRouter(nil)
		for i := 0; i < 50; i++ {
			assert.Equal(t, http.StatusCreated, send(router, "192.168.1.100:12345").Code)
		}
	})
}

func TestRateLimitByKey(t *testing.T) {
	rl, _ := newTestRateLimiter(1, 1)
	router := gin.New()
	router.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader(ChannableTokenHeader)
	}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(ChannableTokenHeader, token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
}
