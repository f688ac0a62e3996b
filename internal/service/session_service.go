package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

type revocationStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionConfig configures token signing.
type SessionConfig struct {
	Secret            string
	TTL               time.Duration
	RevocationEnabled bool
}

// SessionService issues and verifies HS256 session tokens.
type SessionService struct {
	secret      []byte
	ttl         time.Duration
	revocations revocationStore
	revoke      bool
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewSessionService constructs a SessionService. revocations may be nil when revocation is disabled.
func NewSessionService(cfg SessionConfig, revocations revocationStore, metrics *MetricsService, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &SessionService{
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TTL,
		revocations: revocations,
		revoke:      cfg.RevocationEnabled && revocations != nil,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// TTL returns the lifetime of newly issued sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create signs a fresh session for userID.
func (s *SessionService) Create(userID string) (string, *models.SessionClaims, error) {
	if userID == "" {
		return "", nil, errors.New("session: user id is required")
	}
	issuedAt := s.now().UTC().Truncate(time.Second)
	claims := &models.SessionClaims{
		UserID:    userID,
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("session: sign token: %w", err)
	}
	return signed, claims, nil
}

// Inspect decodes token and reports a tagged outcome. It never panics.
func (s *SessionService) Inspect(tokenString string) models.VerifyResult {
	if tokenString == "" {
		return models.VerifyResult{Status: models.VerifyMissing}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	claims := &models.SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})

	switch {
	case err == nil && token.Valid:
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.VerifyResult{Status: models.VerifyExpired}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return models.VerifyResult{Status: models.VerifyInvalidSignature}
	default:
		return models.VerifyResult{Status: models.VerifyMalformed}
	}

	if claims.UserID == "" || claims.SessionID == "" {
		return models.VerifyResult{Status: models.VerifyMalformed}
	}
	return models.VerifyResult{Status: models.VerifyValid, Claims: claims}
}

// Verify returns the claims of a valid token and nil for anything else.
func (s *SessionService) Verify(tokenString string) *models.SessionClaims {
	result := s.Inspect(tokenString)
	if !result.Valid() {
		return nil
	}
	return result.Claims
}

// Check inspects token and, when revocation is enabled, consults the denylist.
// A denylist lookup failure is logged and the token is still accepted.
func (s *SessionService) Check(ctx context.Context, tokenString string) models.VerifyResult {
	result := s.Inspect(tokenString)
	if result.Valid() && s.revoke {
		revoked, err := s.revocations.IsRevoked(ctx, result.Claims.SessionID)
		if err != nil {
			s.logger.Warn("session revocation lookup failed", zap.Error(err))
		} else if revoked {
			result = models.VerifyResult{Status: models.VerifyRevoked}
		}
	}
	s.metrics.RecordSessionCheck(string(result.Status))
	s.logger.Debug("session verified", zap.String("result", string(result.Status)))
	return result
}

// Revoke denylists the session until its natural expiry. It is a no-op when revocation is disabled.
func (s *SessionService) Revoke(ctx context.Context, claims *models.SessionClaims) error {
	if !s.revoke || claims == nil || claims.SessionID == "" {
		return nil
	}
	ttl := s.ttl
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.SessionID, ttl)
}
