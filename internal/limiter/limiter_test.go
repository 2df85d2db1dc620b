package limiter

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values       map[string]int64
	expires      map[string]time.Duration
	scriptLoaded bool
	evals        int
	err          error
}

type noScriptError struct{}

func (noScriptError) Error() string { return "NOSCRIPT No matching script. Please use EVAL." }

func (noScriptError) RedisError() {}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values:  map[string]int64{},
		expires: map[string]time.Duration{},
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(v, 10), nil)
}

// hit reproduit le script : INCR puis EXPIRE au premier échec ou si la clé n'a pas de TTL.
func (f *fakeRedis) hit(keys []string, args []any) *redis.Cmd {
	if f.err != nil {
		return redis.NewCmdResult(nil, f.err)
	}
	key := keys[0]
	f.values[key]++
	if _, ok := f.expires[key]; f.values[key] == 1 || !ok {
		f.expires[key] = time.Duration(args[0].(int64)) * time.Second
	}
	return redis.NewCmdResult(f.values[key], nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.evals++
	return f.hit(keys, args)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	if !f.scriptLoaded {
		return redis.NewCmdResult(nil, noScriptError{})
	}
	return f.hit(keys, args)
}

func (f *fakeRedis) EvalRO(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	return f.Eval(ctx, script, keys, args...)
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...any) *redis.Cmd {
	return f.EvalSha(ctx, sha1, keys, args...)
}

func (f *fakeRedis) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	exists := make([]bool, len(hashes))
	for i := range exists {
		exists[i] = f.scriptLoaded
	}
	return redis.NewBoolSliceResult(exists, nil)
}

func (f *fakeRedis) ScriptLoad(_ context.Context, _ string) *redis.StringCmd {
	f.scriptLoaded = true
	return redis.NewStringResult("sha", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newLimiter(rdb Client) *Limiter {
	cfg := &config.Config{}
	cfg.Limiter.MaxAttempts = 3
	cfg.Limiter.Window = 900
	cfg.Redis.OperationTimeout = 1
	return New(cfg, rdb)
}

func TestLimiterBlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	l := newLimiter(rdb)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "login_alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, l.Hit(ctx, "login_alice@example.com"))
	}

	ok, err := l.Allow(ctx, "login_alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 15*time.Minute, rdb.expires["attempts_login_alice@example.com"])

	ok, err = l.Allow(ctx, "login_bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiterReset(t *testing.T) {
	ctx := context.Background()
	l := newLimiter(newFakeRedis())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Hit(ctx, "verify_alice@example.com"))
	}
	require.NoError(t, l.Reset(ctx, "verify_alice@example.com"))

	ok, err := l.Allow(ctx, "verify_alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiterFailsOpen(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	l := newLimiter(rdb)

	ok, err := l.Allow(context.Background(), "login_alice@example.com")
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestLimiterHitSetsExpirationAtomically(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	l := newLimiter(rdb)

	// premier appel sans script en cache : repli sur EVAL
	require.NoError(t, l.Hit(ctx, "login_alice@example.com"))
	assert.Equal(t, 1, rdb.evals)
	assert.Equal(t, 15*time.Minute, rdb.expires["attempts_login_alice@example.com"])

	rdb.scriptLoaded = true
	require.NoError(t, l.Hit(ctx, "login_alice@example.com"))
	assert.Equal(t, 1, rdb.evals)
	assert.Equal(t, int64(2), rdb.values["attempts_login_alice@example.com"])
}

func TestLimiterHitRestoresMissingExpiration(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.scriptLoaded = true
	// compteur resté sans TTL
	rdb.values["attempts_verify_alice@example.com"] = 2
	l := newLimiter(rdb)

	require.NoError(t, l.Hit(ctx, "verify_alice@example.com"))
	assert.Equal(t, 15*time.Minute, rdb.expires["attempts_verify_alice@example.com"])

	ok, err := l.Allow(ctx, "verify_alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiterHitPropagatesErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	l := newLimiter(rdb)

	assert.Error(t, l.Hit(context.Background(), "login_alice@example.com"))
}
