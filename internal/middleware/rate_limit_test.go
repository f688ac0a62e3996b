package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
)

type stubLimiter struct {
	enabled bool
	limit   int
	hits    map[string]int
	err     error
	clients []string
}

func (s *stubLimiter) Enabled() bool { return s.enabled }

func (s *stubLimiter) Allow(ctx context.Context, client string) (dto.RateLimitStatus, error) {
	s.clients = append(s.clients, client)
	if s.err != nil {
		return dto.RateLimitStatus{}, s.err
	}
	if s.hits == nil {
		s.hits = map[string]int{}
	}
	reset := time.Now().Add(time.Hour).UnixMilli()
	if s.hits[client] >= s.limit {
		return dto.RateLimitStatus{Allowed: false, Limit: s.limit, Remaining: 0, ResetTime: reset, TotalHits: s.hits[client]}, nil
	}
	s.hits[client]++
	return dto.RateLimitStatus{Allowed: true, Limit: s.limit, Remaining: s.limit - s.hits[client], ResetTime: reset, TotalHits: s.hits[client]}, nil
}

func newLimitedRouter(limiter rateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", RateLimit(limiter, nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRateLimitBlocksAfterQuota(t *testing.T) {
	limiter := &stubLimiter{enabled: true, limit: 2}
	router := newLimitedRouter(limiter)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"retryAfter"`)
	assert.Contains(t, rec.Body.String(), `"resetTime"`)
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := newLimitedRouter(&stubLimiter{enabled: true, limit: 1, err: errors.New("redis down")})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	limiter := &stubLimiter{enabled: false}
	router := newLimitedRouter(limiter)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, limiter.clients)
}

func TestClientKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded first entry", headers: map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1", "X-Real-IP": "198.51.100.2"}, want: "203.0.113.9"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.2"}, want: "198.51.100.2"},
		{name: "remote addr", want: "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			c.Request = req
			assert.Equal(t, tc.want, ClientKey(c))
		})
	}
}
