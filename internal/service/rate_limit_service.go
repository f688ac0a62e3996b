package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
)

type rateLimitCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// RateLimitConfig bounds requests per client within a fixed window.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
}

// RateLimitService enforces a fixed-window quota on an external counter store.
type RateLimitService struct {
	counter rateLimitCounter
	config  RateLimitConfig
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewRateLimitService constructs a RateLimitService.
func NewRateLimitService(counter rateLimitCounter, cfg RateLimitConfig, metrics *MetricsService, logger *zap.Logger) *RateLimitService {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 4
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitService{counter: counter, config: cfg, metrics: metrics, logger: logger, now: time.Now}
}

// Enabled reports whether requests should be gated.
func (s *RateLimitService) Enabled() bool {
	return s != nil && s.config.Enabled && s.counter != nil
}

// Limit returns the configured quota.
func (s *RateLimitService) Limit() int {
	return s.config.MaxRequests
}

// Allow consumes one request from the client's quota. A blocked client is not counted again.
func (s *RateLimitService) Allow(ctx context.Context, client string) (dto.RateLimitStatus, error) {
	current, err := s.counter.Count(ctx, client)
	if err != nil {
		return dto.RateLimitStatus{}, err
	}
	if current >= int64(s.config.MaxRequests) {
		status, err := s.status(ctx, client, current, false)
		if err != nil {
			return dto.RateLimitStatus{}, err
		}
		s.metrics.RecordRateLimit(false)
		s.logger.Info("rate limit blocked", zap.String("client", client), zap.Int64("hits", current))
		return status, nil
	}

	hits, err := s.counter.Increment(ctx, client, s.config.Window)
	if err != nil {
		return dto.RateLimitStatus{}, err
	}
	allowed := hits <= int64(s.config.MaxRequests)
	status, err := s.status(ctx, client, hits, allowed)
	if err != nil {
		return dto.RateLimitStatus{}, err
	}
	s.metrics.RecordRateLimit(allowed)
	s.logger.Debug("rate limit checked", zap.String("client", client), zap.Bool("allowed", allowed), zap.Int("remaining", status.Remaining))
	return status, nil
}

// Status reports the client's quota without consuming it.
func (s *RateLimitService) Status(ctx context.Context, client string) (dto.RateLimitStatus, error) {
	current, err := s.counter.Count(ctx, client)
	if err != nil {
		return dto.RateLimitStatus{}, err
	}
	return s.status(ctx, client, current, current < int64(s.config.MaxRequests))
}

func (s *RateLimitService) status(ctx context.Context, client string, hits int64, allowed bool) (dto.RateLimitStatus, error) {
	ttl := s.config.Window
	if hits > 0 {
		remainingTTL, err := s.counter.TTL(ctx, client)
		if err != nil {
			return dto.RateLimitStatus{}, err
		}
		if remainingTTL > 0 {
			ttl = remainingTTL
		}
	}
	remaining := s.config.MaxRequests - int(hits)
	if remaining < 0 || !allowed {
		remaining = 0
	}
	return dto.RateLimitStatus{
		Allowed:   allowed,
		Limit:     s.config.MaxRequests,
		Remaining: remaining,
		ResetTime: s.now().Add(ttl).UnixMilli(),
		TotalHits: int(hits),
	}, nil
}
