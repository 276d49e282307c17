package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/shared/logger"
)

const accessKeyPrefix = "learnhub:access:"

// RedisAccessCache stores access decisions under
// learnhub:access:{user_id}:{course_id}.
type RedisAccessCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisAccessCache(client *redis.Client, logger logger.Interface) *RedisAccessCache {
	return &RedisAccessCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisAccessCache) buildKey(userID, courseID uint) string {
	return fmt.Sprintf("%s%d:%d", accessKeyPrefix, userID, courseID)
}

func (c *RedisAccessCache) Get(ctx context.Context, userID, courseID uint) (*dto.AccessDTO, bool, error) {
	data, err := c.client.Get(ctx, c.buildKey(userID, courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read access cache: %w", err)
	}

	var access dto.AccessDTO
	if err := json.Unmarshal(data, &access); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached access: %w", err)
	}
	return &access, true, nil
}

// Set skips non-positive TTLs; such a decision is already stale.
func (c *RedisAccessCache) Set(ctx context.Context, userID uint, access *dto.AccessDTO, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(access)
	if err != nil {
		return fmt.Errorf("failed to encode access: %w", err)
	}
	if err := c.client.Set(ctx, c.buildKey(userID, access.CourseID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write access cache: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached decision for userID. A change to a period
// plan affects all courses, so entries are not narrowed by course.
func (c *RedisAccessCache) InvalidateUser(ctx context.Context, userID uint) error {
	pattern := fmt.Sprintf("%s%d:*", accessKeyPrefix, userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan access cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate access cache: %w", err)
	}

	c.logger.Debugw("access cache invalidated", "user_id", userID, "keys", len(keys))
	return nil
}
