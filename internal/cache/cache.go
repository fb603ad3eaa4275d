// Package cache wraps redis as a best-effort accelerator for user profiles
// and conversation histories. Every failure is treated as a miss; nothing
// here ever propagates an error to a request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/ai"
	"github.com/careerwise-ai/careerwise/internal/models"
)

const (
	profileKeyPrefix      = "user_profile:"
	conversationKeyPrefix = "conversation:"

	historyTTL = 30 * time.Minute
	profileTTL = time.Hour
)

type Cache struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// New builds a Cache. A nil client disables caching entirely: every read
// misses and every write is a no-op, mirroring a cache backend outage.
func New(client *redis.Client, logger *zap.SugaredLogger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Get unmarshals the value stored at key into out, reporting whether a
// usable value was found.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warnw("cache read failed, treating as miss", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Warnw("cache entry undecodable, treating as miss", "key", key, "error", err)
		return false
	}

	return true
}

// Set stores value at key with the given expiry, best effort.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warnw("cache value unencodable, skipping write", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warnw("cache write failed", "key", key, "error", err)
	}
}

// Delete removes key, best effort.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnw("cache delete failed", "key", key, "error", err)
	}
}

func (c *Cache) GetProfile(ctx context.Context, userID string) (*models.UserProfile, bool) {
	var profile models.UserProfile
	if !c.Get(ctx, profileKeyPrefix+userID, &profile) {
		return nil, false
	}
	return &profile, true
}

func (c *Cache) SetProfile(ctx context.Context, userID string, profile *models.UserProfile) {
	if profile == nil {
		return
	}
	c.Set(ctx, profileKeyPrefix+userID, profile, profileTTL)
}

func (c *Cache) DeleteProfile(ctx context.Context, userID string) {
	c.Delete(ctx, profileKeyPrefix+userID)
}

func (c *Cache) GetHistory(ctx context.Context, conversationID string) ([]ai.Message, bool) {
	var history []ai.Message
	if !c.Get(ctx, conversationKeyPrefix+conversationID, &history) {
		return nil, false
	}
	return history, true
}

func (c *Cache) SetHistory(ctx context.Context, conversationID string, history []ai.Message) {
	c.Set(ctx, conversationKeyPrefix+conversationID, history, historyTTL)
}
