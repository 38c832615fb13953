package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/ronda-app/utils"
)

// releaseScript deletes the key only when it still holds our token, so an
// expired lease taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// renewScript extends the lease only while we still hold it.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// RedisLocker is a TableLocker shared by every API instance pointing at the
// same Redis. A held lease is renewed every TTL/3 until released, so it only
// expires when the holder dies or loses Redis for longer than TTL. In that case
// another instance may enter; the unique active_table_id index still rejects a
// second active ronda.
type RedisLocker struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
	Retry  time.Duration
}

func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		Client: client,
		Prefix: "ronda:lock:",
		TTL:    10 * time.Second,
		Retry:  25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.Prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, fullKey, token, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.Retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	stop := make(chan struct{})
	go l.renew(fullKey, token, stop)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			// ctx may already be cancelled by the time we release.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.Client, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				utils.ErrorLogger.Printf("failed to release lock %s: %v", fullKey, err)
			}
		})
	}, nil
}

func (l *RedisLocker) renew(fullKey, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.TTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.TTL/3)
			held, err := renewScript.Run(ctx, l.Client, []string{fullKey}, token, l.TTL.Milliseconds()).Int()
			cancel()
			if err != nil {
				utils.ErrorLogger.Printf("failed to renew lock %s: %v", fullKey, err)
				continue
			}
			if held == 0 {
				utils.ErrorLogger.Printf("lock %s expired before release", fullKey)
				return
			}
		}
	}
}
