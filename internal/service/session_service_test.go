package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

func newTestSessions(revocations revocationStore, revoke bool) *SessionService {
	return NewSessionService(SessionConfig{Secret: "test-secret", TTL: DefaultSessionTTL, RevocationEnabled: revoke}, revocations, nil, nil)
}

func TestSessionCreateAndVerify(t *testing.T) {
	svc := newTestSessions(nil, false)

	token, claims, err := svc.Create("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
	assert.Equal(t, DefaultSessionTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	verified := svc.Verify(token)
	require.NotNil(t, verified)
	assert.Equal(t, "user-1", verified.UserID)
	assert.Equal(t, claims.SessionID, verified.SessionID)
}

func TestSessionCreateRequiresUserID(t *testing.T) {
	svc := newTestSessions(nil, false)
	_, _, err := svc.Create("")
	require.Error(t, err)
}

func TestSessionSessionIDsAreUnique(t *testing.T) {
	svc := newTestSessions(nil, false)
	_, first, err := svc.Create("user-1")
	require.NoError(t, err)
	_, second, err := svc.Create("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestSessionInspectTagsFailures(t *testing.T) {
	svc := newTestSessions(nil, false)
	token, _, err := svc.Create("user-1")
	require.NoError(t, err)

	tampered := []byte(token)
	last := len(tampered) - 2
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	other := NewSessionService(SessionConfig{Secret: "another-secret"}, nil, nil, nil)
	foreign, _, err := other.Create("user-1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.SessionClaims{UserID: "user-1", SessionID: "s"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		status models.VerifyStatus
	}{
		{name: "missing", token: "", status: models.VerifyMissing},
		{name: "garbage", token: "not-a-token", status: models.VerifyMalformed},
		{name: "foreign secret", token: foreign, status: models.VerifyInvalidSignature},
		{name: "alg none", token: unsigned, status: models.VerifyInvalidSignature},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.Inspect(tc.token)
			assert.Equal(t, tc.status, result.Status)
			assert.Nil(t, result.Claims)
			assert.Nil(t, svc.Verify(tc.token))
		})
	}

	assert.Nil(t, svc.Verify(string(tampered)))
}

func TestSessionVerifyRejectsAnyAlteredCharacter(t *testing.T) {
	svc := newTestSessions(nil, false)
	token, _, err := svc.Create("user-1")
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		replacement := byte('x')
		if token[i] == 'x' {
			replacement = 'y'
		}
		altered := token[:i] + string(replacement) + token[i+1:]
		assert.Nil(t, svc.Verify(altered), "position %d", i)
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	svc := newTestSessions(nil, false)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	token, _, err := svc.Create("user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(DefaultSessionTTL - time.Minute) }
	assert.NotNil(t, svc.Verify(token))

	svc.now = func() time.Time { return base.Add(DefaultSessionTTL + time.Second) }
	result := svc.Inspect(token)
	assert.Equal(t, models.VerifyExpired, result.Status)
	assert.Nil(t, svc.Verify(token))
}

func TestSessionTTLDefaults(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewSessionService(SessionConfig{Secret: "s"}, nil, nil, nil).TTL())
	assert.Equal(t, time.Hour, NewSessionService(SessionConfig{Secret: "s", TTL: time.Hour}, nil, nil, nil).TTL())
}

func TestSessionInspectRequiresClaims(t *testing.T) {
	svc := newTestSessions(nil, false)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Equal(t, models.VerifyMalformed, svc.Inspect(token).Status)
}

func TestSessionRevocation(t *testing.T) {
	store := newMemoryRevocations()
	svc := newTestSessions(store, true)
	ctx := context.Background()

	token, claims, err := svc.Create("user-1")
	require.NoError(t, err)
	assert.True(t, svc.Check(ctx, token).Valid())

	require.NoError(t, svc.Revoke(ctx, claims))
	ttl := store.revoked[claims.SessionID]
	assert.True(t, ttl > DefaultSessionTTL-time.Minute && ttl <= DefaultSessionTTL)

	assert.Equal(t, models.VerifyRevoked, svc.Check(ctx, token).Status)
	assert.NotNil(t, svc.Verify(token), "revocation is only consulted by Check")
}

func TestSessionRevocationDisabled(t *testing.T) {
	store := newMemoryRevocations()
	svc := newTestSessions(store, false)
	ctx := context.Background()

	token, claims, err := svc.Create("user-1")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, claims))
	assert.Empty(t, store.revoked)
	assert.True(t, svc.Check(ctx, token).Valid())
}

func TestSessionRevocationLookupFailureAccepts(t *testing.T) {
	store := newMemoryRevocations()
	store.err = assert.AnError
	svc := newTestSessions(store, true)

	token, _, err := svc.Create("user-1")
	require.NoError(t, err)
	assert.True(t, svc.Check(context.Background(), token).Valid())
}

func TestSessionTokenHasThreeSegments(t *testing.T) {
	svc := newTestSessions(nil, false)
	token, _, err := svc.Create("user-1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}
