package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, password := range []string{"secret1", "correct horse battery staple", "পাসওয়ার্ড১২৩"} {
		hash, err := HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)
		assert.True(t, VerifyPassword(password, hash))
		assert.False(t, VerifyPassword(password+"x", hash))
	}
}

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	_, err := HashPassword("12345", bcrypt.MinCost)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestHashPasswordUsesDefaultCost(t *testing.T) {
	hash, err := HashPassword("secret1", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	assert.False(t, VerifyPassword("secret1", ""))
}
