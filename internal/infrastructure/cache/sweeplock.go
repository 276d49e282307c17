package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/logger"
)

// releaseScript deletes the lock only while it still holds our token, so a
// run that outlived its TTL cannot free a lock taken by the next run.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSweepLock is a cross-process mutex for the reconciliation sweep.
type RedisSweepLock struct {
	client *redis.Client
	key    string
	logger logger.Interface
}

func NewRedisSweepLock(client *redis.Client, logger logger.Interface) *RedisSweepLock {
	return &RedisSweepLock{
		client: client,
		key:    constants.RedisSweepLockKey,
		logger: logger,
	}
}

// TryAcquire atomically takes the lock with SET NX EX.
func (l *RedisSweepLock) TryAcquire(ctx context.Context, ttl time.Duration) (bool, func(), error) {
	token, err := newLockToken()
	if err != nil {
		return false, nil, err
	}

	acquired, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !acquired {
		return false, nil, nil
	}

	release := func() {
		// The sweep context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
			l.logger.Warnw("failed to release sweep lock", "key", l.key, "error", err)
		}
	}
	return true, release, nil
}

func newLockToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
