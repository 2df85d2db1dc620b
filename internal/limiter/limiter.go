package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client est le sous-ensemble de redis.Cmdable utilisé par le limiteur.
type Client interface {
	redis.Scripter
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// hitScript incrémente le compteur et lui pose une expiration dans le même appel.
// Une clé restée sans TTL en reçoit une au passage.
var hitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("TTL", KEYS[1]) < 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Limiter compte les échecs par clé dans une fenêtre fixe qui démarre au premier échec.
type Limiter struct {
	rdb         Client
	maxAttempts int
	window      time.Duration
	timeout     time.Duration
}

func New(cfg *config.Config, rdb Client) *Limiter {
	return &Limiter{
		rdb:         rdb,
		maxAttempts: cfg.Limiter.MaxAttempts,
		window:      time.Duration(cfg.Limiter.Window) * time.Second,
		timeout:     time.Duration(cfg.Redis.OperationTimeout) * time.Second,
	}
}

func redisKey(key string) string {
	return fmt.Sprintf("attempts_%s", key)
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, err := l.rdb.Get(ctx, redisKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, err
	}

	return count < l.maxAttempts, nil
}

func (l *Limiter) Hit(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return hitScript.Run(ctx, l.rdb, []string{redisKey(key)}, int64(l.window/time.Second)).Err()
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return l.rdb.Del(ctx, redisKey(key)).Err()
}
