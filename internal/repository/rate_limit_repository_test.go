package repository

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRedis answers commands in-process through a client hook.
type scriptedRedis struct {
	mu    sync.Mutex
	calls [][]interface{}
	reply func(cmd redis.Cmder)
}

func (s *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (s *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		s.mu.Lock()
		s.calls = append(s.calls, cmd.Args())
		s.mu.Unlock()
		s.reply(cmd)
		return cmd.Err()
	}
}

func (s *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

type serverError string

func (e serverError) Error() string { return string(e) }
func (serverError) RedisError()     {}

func newScriptedClient(reply func(cmd redis.Cmder)) (*redis.Client, *scriptedRedis) {
	hook := &scriptedRedis{reply: reply}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	return client, hook
}

func TestRateLimitIncrementRunsAtomicScript(t *testing.T) {
	client, hook := newScriptedClient(func(cmd redis.Cmder) {
		if c, ok := cmd.(*redis.Cmd); ok && c.Name() == "evalsha" {
			c.SetVal(int64(3))
		}
	})
	defer client.Close()
	repo := NewRateLimitRepository(client, "")

	n, err := repo.Increment(context.Background(), "10.0.0.1", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, hook.calls, 1)
	args := hook.calls[0]
	assert.Equal(t, "evalsha", args[0])
	assert.Equal(t, incrementScript.Hash(), args[1])
	assert.EqualValues(t, 1, args[2])
	assert.Equal(t, "rate_limit:10.0.0.1", args[3])
	assert.EqualValues(t, (24 * time.Hour).Milliseconds(), args[4])
}

func TestRateLimitIncrementLoadsScriptOnNoScript(t *testing.T) {
	client, hook := newScriptedClient(func(cmd redis.Cmder) {
		c, ok := cmd.(*redis.Cmd)
		if !ok {
			return
		}
		switch c.Name() {
		case "evalsha":
			c.SetErr(serverError("NOSCRIPT No matching script"))
		case "eval":
			c.SetVal(int64(1))
		}
	})
	defer client.Close()
	repo := NewRateLimitRepository(client, "rl:")

	n, err := repo.Increment(context.Background(), "client", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, hook.calls, 2)
	assert.Equal(t, "eval", hook.calls[1][0])
	script, _ := hook.calls[1][1].(string)
	assert.Contains(t, script, "INCR")
	assert.Contains(t, script, "PTTL")
	assert.Contains(t, script, "PEXPIRE")
}

func TestRateLimitIncrementSurfacesErrors(t *testing.T) {
	client, _ := newScriptedClient(func(cmd redis.Cmder) {
		cmd.SetErr(errors.New("connection reset"))
	})
	defer client.Close()

	_, err := NewRateLimitRepository(client, "").Increment(context.Background(), "client", time.Minute)
	assert.ErrorContains(t, err, "rate limit incr")
}

func TestRateLimitCountAndTTL(t *testing.T) {
	client, _ := newScriptedClient(func(cmd redis.Cmder) {
		switch c := cmd.(type) {
		case *redis.StringCmd:
			if c.Args()[1] == "rate_limit:missing" {
				c.SetErr(redis.Nil)
				return
			}
			c.SetVal("2")
		case *redis.DurationCmd:
			c.SetVal(-1)
		}
	})
	defer client.Close()
	repo := NewRateLimitRepository(client, "")

	n, err := repo.Count(context.Background(), "seen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Count(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	ttl, err := repo.TTL(context.Background(), "seen")
	require.NoError(t, err)
	assert.Zero(t, ttl)
}
