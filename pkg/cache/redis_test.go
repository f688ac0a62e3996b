package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcq-exam-api/pkg/config"
)

func TestOptionsFromURL(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://:secret@cache:6380/2", Host: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestOptionsFromFields(t *testing.T) {
	opts, err := options(config.RedisConfig{Host: "localhost", Port: 6379, DB: 1})
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)
}

func TestOptionsRejectsBadURL(t *testing.T) {
	_, err := options(config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}
