package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/config"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const retryInterval = 50 * time.Millisecond

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisCartLocker serializes cart operations per user across instances.
type RedisCartLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisClient(cfg config.Redis) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rc, nil
}

func NewRedisCartLocker(client *redis.Client, ttl, wait time.Duration) *RedisCartLocker {
	return &RedisCartLocker{client: client, ttl: ttl, wait: wait}
}

func cartLockKey(userID string) string {
	return "cart:lock:" + userID
}

func (l *RedisCartLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := cartLockKey(userID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire cart lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrCartBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("failed to release cart lock", "user_id", userID, "error", err)
		}
	}, nil
}
