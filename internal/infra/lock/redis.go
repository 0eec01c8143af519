package lock

import (
	"context"
	"log/slog"
	"time"

	"popularity-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "popularity:owner-lock:"
	retryBackoff = 25 * time.Millisecond
	maxBackoff   = 250 * time.Millisecond
)

var ErrLockTimeout = errs.New("timed out waiting for owner lock")

// releaseScript deletes the key only while it still holds our token, so a holder whose
// TTL lapsed cannot release a lock that another instance has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes owners across API instances with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	key := keyPrefix + ownerID.String()
	token := uuid.NewString()
	wait := retryBackoff

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errs.Wrap(err, "redis lock acquire")
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errs.Mark(ctx.Err(), ErrLockTimeout)
		case <-time.After(wait):
		}
		wait = min(wait*2, maxBackoff)
	}

	return func() {
		// The caller's context may already be canceled by the time we release.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("failed to release owner lock", "owner_id", ownerID, "error", err.Error())
		}
	}, nil
}
