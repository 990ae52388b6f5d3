package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/course-registration/internal/config"
)

// ErrStudentBusy is returned when another add or drop for the same student
// still holds the lock after the wait window.
var ErrStudentBusy = errors.New("another enrollment change is in progress")

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

// RedisStudentLocker serializes enrollment changes per student across
// server instances using SET NX PX.
type RedisStudentLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStudentLocker creates a locker whose keys expire after ttl.
func NewRedisStudentLocker(rdb *redis.Client, ttl time.Duration) *RedisStudentLocker {
	return &RedisStudentLocker{rdb: rdb, ttl: ttl}
}

// Lock waits up to one TTL for the student's lock. The returned func
// releases it and is safe to call once.
func (l *RedisStudentLocker) Lock(ctx context.Context, matric string) (func(), error) {
	key := config.CacheKey.StudentLockKey(matric)
	token := uuid.NewString()
	deadline := time.Now().Add(l.ttl)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return func() {
				// Use a fresh context so a cancelled request still releases.
				releaseScript.Run(context.Background(), l.rdb, []string{key}, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrStudentBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
