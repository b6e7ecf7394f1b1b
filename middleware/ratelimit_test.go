package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/middleware"
)

// countingLimiter allows limit calls per key and ignores the window.
type countingLimiter struct {
	counts map[string]int
	err    error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

func limitedRouter(limiter middleware.RateLimiter, limit int) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Identity(testSecret))
	r.POST("/generate", middleware.RateLimit(limiter, limit, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler, auth string) int {
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_rejectsOverBudget(t *testing.T) {
	r := limitedRouter(&countingLimiter{counts: map[string]int{}}, 2)

	assert.Equal(t, http.StatusOK, post(r, ""))
	assert.Equal(t, http.StatusOK, post(r, ""))
	assert.Equal(t, http.StatusTooManyRequests, post(r, ""))

	token, err := middleware.NewToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, post(r, "Bearer "+token), "users have their own budget")
}

func TestRateLimit_failsOpen(t *testing.T) {
	r := limitedRouter(&countingLimiter{err: errors.New("redis: connection refused")}, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, ""))
	}
}

func TestRateLimit_nilLimiterIsNoop(t *testing.T) {
	r := limitedRouter(nil, 1)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, ""))
	}
}
