package limiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "verify_attempts:"

	// redisRecordTTL bounds how long an idle counter survives. Long
	// enough to outlive any block window by a wide margin.
	redisRecordTTL = time.Hour
)

// RedisLimiter keeps counters in redis so multiple instances share
// limiter state and counters survive a process restart.
//
// The count increment is atomic (HINCRBY); the block transition is a
// follow-up write, so two simultaneous over-budget failures may both set
// blocked_until within milliseconds of each other. Both write the same
// outcome, which is acceptable for a 3-attempt budget.
type RedisLimiter struct {
	client *redis.Client
	config Config
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		config: config,
		now:    time.Now,
	}
}

func (l *RedisLimiter) redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

func (l *RedisLimiter) Check(ctx context.Context, key Key) (*Status, error) {
	fields, err := l.client.HGetAll(ctx, l.redisKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("limiter check: %w", err)
	}

	if len(fields) == 0 {
		return &Status{AttemptsLeft: l.config.MaxAttempts}, nil
	}

	return l.buildStatus(fields), nil
}

func (l *RedisLimiter) Fail(ctx context.Context, key Key) (*Status, error) {
	redisKey := l.redisKey(key)

	count, err := l.client.HIncrBy(ctx, redisKey, "count", 1).Result()
	if err != nil {
		return nil, fmt.Errorf("limiter fail: %w", err)
	}

	var blockedUntil time.Time
	if count >= int64(l.config.MaxAttempts) {
		blockedUntil = l.now().Add(l.config.BlockDuration)

		pipe := l.client.Pipeline()
		// Pin the count at the maximum so repeated failures past the
		// budget do not inflate it.
		pipe.HSet(ctx, redisKey, "count", l.config.MaxAttempts)
		pipe.HSet(ctx, redisKey, "blocked_until", blockedUntil.UnixMilli())
		pipe.Expire(ctx, redisKey, redisRecordTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("limiter block: %w", err)
		}

		count = int64(l.config.MaxAttempts)
	} else {
		if err := l.client.Expire(ctx, redisKey, redisRecordTTL).Err(); err != nil {
			return nil, fmt.Errorf("limiter expire: %w", err)
		}
	}

	attemptsLeft := l.config.MaxAttempts - int(count)
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	status := &Status{
		Count:        int(count),
		AttemptsLeft: attemptsLeft,
	}
	if !blockedUntil.IsZero() {
		status.Blocked = true
		status.BlockedUntil = blockedUntil
		status.AttemptsLeft = 0
	}

	return status, nil
}

func (l *RedisLimiter) Clear(ctx context.Context, key Key) error {
	if err := l.client.Del(ctx, l.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("limiter clear: %w", err)
	}
	return nil
}

func (l *RedisLimiter) buildStatus(fields map[string]string) *Status {
	count, _ := strconv.Atoi(fields["count"])

	attemptsLeft := l.config.MaxAttempts - count
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	status := &Status{
		Count:        count,
		AttemptsLeft: attemptsLeft,
	}

	if raw, ok := fields["blocked_until"]; ok {
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
			blockedUntil := time.UnixMilli(millis)
			if blockedUntil.After(l.now()) {
				status.Blocked = true
				status.BlockedUntil = blockedUntil
				status.AttemptsLeft = 0
			}
		}
	}

	return status
}
