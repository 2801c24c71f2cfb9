package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyJobLock is the Redis-backed distributed lock guarding the once-daily
// rollup/archival job so only one process instance runs it at a time, using
// a SETNX-with-TTL acquire and a compare-then-delete Lua release so a lock
// holder never drops a lease it no longer owns.
type DailyJobLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDailyJobLock wraps an existing go-redis client.
func NewDailyJobLock(client *redis.Client, ttl time.Duration) *DailyJobLock {
	return &DailyJobLock{client: client, ttl: ttl}
}

// Acquire attempts to take the named daily lock, returning true if this
// caller now holds it. Safe for concurrent callers across processes: only
// one SETNX succeeds.
func (l *DailyJobLock) Acquire(ctx context.Context, key, holder string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(key), holder, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("persistence: acquiring daily lock %s: %w", key, err)
	}
	return ok, nil
}

// Release drops the lock only if it is still held by holder, preventing a
// slow caller from releasing a lock a later caller has since acquired.
func (l *DailyJobLock) Release(ctx context.Context, key, holder string) error {
	script := redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0
	`)
	if err := script.Run(ctx, l.client, []string{lockKey(key)}, holder).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("persistence: releasing daily lock %s: %w", key, err)
	}
	return nil
}

func lockKey(key string) string {
	return "sharpline:daily-lock:" + key
}
