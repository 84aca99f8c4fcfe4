package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ConnectRedis opens a client and checks the server answers
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("addr", addr).Info("Connected to Redis")
	return rdb, nil
}

// RedisStrikeCounter counts chat moderation strikes in a window that starts at the first strike
type RedisStrikeCounter struct {
	client redis.Cmdable
	window time.Duration
}

// NewRedisStrikeCounter creates a strike counter
func NewRedisStrikeCounter(client redis.Cmdable, window time.Duration) *RedisStrikeCounter {
	return &RedisStrikeCounter{client: client, window: window}
}

func strikeKey(accountID int64) string {
	return fmt.Sprintf("arcade:chat:strikes:%d", accountID)
}

// Increment adds a strike and returns the count inside the current window
func (c *RedisStrikeCounter) Increment(ctx context.Context, accountID int64) (int64, error) {
	key := strikeKey(accountID)

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count strike for account %d: %w", accountID, err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, c.window).Err(); err != nil {
			return count, fmt.Errorf("failed to set strike window for account %d: %w", accountID, err)
		}
	}

	return count, nil
}

// Reset clears the strikes of an account
func (c *RedisStrikeCounter) Reset(ctx context.Context, accountID int64) error {
	if err := c.client.Del(ctx, strikeKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to reset strikes for account %d: %w", accountID, err)
	}
	return nil
}
