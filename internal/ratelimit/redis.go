package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	client  *redis.Client
	log     *slog.Logger
	prefix  string
	timeout time.Duration
}

// NewRedis returns a limiter whose counters live in Redis so every replica
// shares them. It fails open: when Redis errors the request is allowed.
func NewRedis(addr, password string, db int, log *slog.Logger) (Limiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisWithClient(client, log), nil
}

func newRedisWithClient(client *redis.Client, log *slog.Logger) *redisLimiter {
	return &redisLimiter{
		client:  client,
		log:     log,
		prefix:  "rentals:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (l *redisLimiter) Allow(key string, limit int, win time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if win <= 0 {
		win = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	redisKey := l.prefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Error("rate limiter redis error", "op", "incr", "error", err)
		return Decision{Allowed: true}
	}
	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		l.log.Error("rate limiter redis error", "op", "ttl", "error", err)
		ttl = win
	} else if ttl < 0 {
		// new window, or one whose EXPIRE was lost; a key without a TTL
		// would block forever once past the limit
		if err := l.client.Expire(ctx, redisKey, win).Err(); err != nil {
			l.log.Error("rate limiter redis error", "op", "expire", "error", err)
		}
		ttl = win
	}
	return Decision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (l *redisLimiter) Close() {
	if l.client != nil {
		_ = l.client.Close()
	}
}
