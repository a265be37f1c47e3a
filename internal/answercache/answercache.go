// Package answercache remembers recent answer submissions in Redis so a
// double-clicked submit is graded but not recorded twice.
package answercache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/love-prep/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "love:last_answer:"
	TTL       = 5 * time.Second
)

// Guard reports whether a submission is the first for (user, question)
// within the TTL window.
type Guard interface {
	First(ctx context.Context, userID, questionID int64) (bool, error)
}

// Connect returns nil without an address; callers fall back to Nop.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client, ttl: TTL}
}

func (g *RedisGuard) First(ctx context.Context, userID, questionID int64) (bool, error) {
	key := keyPrefix + strconv.FormatInt(userID, 10)
	// SET ... GET swaps in this question and hands back the previous one.
	prev, err := g.client.SetArgs(ctx, key, strconv.FormatInt(questionID, 10), redis.SetArgs{
		TTL: g.ttl,
		Get: true,
	}).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("answer guard: %w", err)
	}
	return prev != strconv.FormatInt(questionID, 10), nil
}

// Nop treats every submission as first.
type Nop struct{}

func (Nop) First(context.Context, int64, int64) (bool, error) { return true, nil }
