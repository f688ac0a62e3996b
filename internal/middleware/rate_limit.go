package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

type rateLimiter interface {
	Enabled() bool
	Allow(ctx context.Context, client string) (dto.RateLimitStatus, error)
}

// ClientKey identifies the caller for rate limiting: the first X-Forwarded-For entry,
// then X-Real-IP, then the connection address.
func ClientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(c.GetHeader("X-Real-IP")); real != "" {
		return real
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "127.0.0.1"
}

// RateLimit consumes one request of the caller's quota and rejects the request once it is spent.
// Counter store failures let the request through.
func RateLimit(limiter rateLimiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil || !limiter.Enabled() {
			c.Next()
			return
		}

		client := ClientKey(c)
		status, err := limiter.Allow(c.Request.Context(), client)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", zap.String("client", client), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(status.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(status.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(status.ResetTime/1000, 10))

		if !status.Allowed {
			retryAfter := time.Until(time.UnixMilli(status.ResetTime))
			seconds := int64(retryAfter.Round(time.Second) / time.Second)
			if seconds < 0 {
				seconds = 0
			}
			c.Header("Retry-After", strconv.FormatInt(seconds, 10))
			response.RateLimited(c, seconds, status.ResetTime)
			c.Abort()
			return
		}
		c.Next()
	}
}
