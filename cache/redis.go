package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "remindbot:prefix:"
	// Entries expire so that an edit made by another process is eventually picked up even if
	// its write to redis failed
	defaultRedisTTL = 24 * time.Hour
)

// RedisPrefixCache shares prefix entries between bot processes
type RedisPrefixCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPrefixCache(client *redis.Client) *RedisPrefixCache {
	return &RedisPrefixCache{client: client, ttl: defaultRedisTTL}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func redisKey(guildID string) string {
	return redisKeyPrefix + guildID
}

func (c *RedisPrefixCache) Get(ctx context.Context, guildID string) (string, bool, error) {
	prefix, err := c.client.Get(ctx, redisKey(guildID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached prefix: %w", err)
	}
	return prefix, true, nil
}

func (c *RedisPrefixCache) Set(ctx context.Context, guildID, prefix string) error {
	if err := c.client.Set(ctx, redisKey(guildID), prefix, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached prefix: %w", err)
	}
	return nil
}

func (c *RedisPrefixCache) Add(ctx context.Context, guildID, prefix string) error {
	if err := c.client.SetNX(ctx, redisKey(guildID), prefix, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to add cached prefix: %w", err)
	}
	return nil
}
