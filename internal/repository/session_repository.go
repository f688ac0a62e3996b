package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository is a Redis denylist of revoked session ids.
// Entries expire together with the token they revoke.
type SessionRepository struct {
	client redis.UniversalClient
}

// NewSessionRepository constructs the denylist.
func NewSessionRepository(client redis.UniversalClient) *SessionRepository {
	return &SessionRepository{client: client}
}

func revokedKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

// Revoke marks a session id as revoked until ttl elapses.
func (r *SessionRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session id is on the denylist.
func (r *SessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, revokedKey(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return true, nil
}
