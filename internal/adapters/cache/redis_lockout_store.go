package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/easysewa/booking-service/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	lockoutPrefix   = "easysewa:lockout:"
	failureWindow   = 24 * time.Hour
	lockoutTTLSlack = 30 * time.Minute
)

// RedisLockoutStore counts failed logins per email in a Redis hash.
type RedisLockoutStore struct {
	client redis.UniversalClient
}

func NewRedisLockoutStore(client redis.UniversalClient) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

func (s *RedisLockoutStore) Get(ctx context.Context, key string) (ports.LockoutState, error) {
	data, err := s.client.HGetAll(ctx, lockoutPrefix+key).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}
	return decodeLockout(data), nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	redisKey := lockoutPrefix + key

	count, err := s.client.HIncrBy(ctx, redisKey, "failed_count", 1).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}
	state := ports.LockoutState{FailedCount: int(count)}
	if state.FailedCount < threshold {
		_ = s.client.Expire(ctx, redisKey, failureWindow).Err()
		return state, nil
	}

	lockedUntil := now.Add(lockoutWindow).UTC()
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, redisKey, "locked_until", lockedUntil.Unix())
		p.Expire(ctx, redisKey, lockoutWindow+lockoutTTLSlack)
		return nil
	})
	if err != nil {
		return ports.LockoutState{}, err
	}
	state.LockedUntil = &lockedUntil
	return state, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, lockoutPrefix+key).Err()
}

func decodeLockout(data map[string]string) ports.LockoutState {
	state := ports.LockoutState{}
	if n, err := strconv.Atoi(data["failed_count"]); err == nil {
		state.FailedCount = n
	}
	if unix, err := strconv.ParseInt(data["locked_until"], 10, 64); err == nil && unix > 0 {
		t := time.Unix(unix, 0).UTC()
		state.LockedUntil = &t
	}
	return state
}
