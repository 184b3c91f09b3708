package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Locker interface {
	// Acquire reports whether the lock was taken. It never blocks waiting for a holder.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker is a SETNX lock shared by every replica talking to the same Redis.
type RedisLocker struct {
	rdb   *redis.Client
	token string
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, token: uuid.NewString()}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, l.token, ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.rdb.Eval(ctx, releaseScript, []string{key}, l.token).Err()
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (noopLocker) Release(context.Context, string) error                        { return nil }
