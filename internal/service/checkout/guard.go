package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSubmissionInFlight is returned when a checkout for the same session is
// already being validated or submitted.
var ErrSubmissionInFlight = errors.New("checkout already in progress")

// Guard admits one checkout per key at a time.
type Guard interface {
	// Acquire returns a release func, or ErrSubmissionInFlight if key is held.
	Acquire(ctx context.Context, key string) (func(), error)
}

// MemoryGuard serialises checkouts within one process.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, ErrSubmissionInFlight
	}
	g.held[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.held, key)
		g.mu.Unlock()
	}, nil
}

type redisLocker interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// releaseLock deletes the lock only while it still carries the holder's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the in-flight marker between API replicas. The TTL bounds
// how long a crashed submission can block its session. Each holder stores its
// own token so an expired holder cannot release a later one.
type RedisGuard struct {
	rdb redisLocker
	ttl time.Duration
}

func NewRedisGuard(rdb redisLocker, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

// TTL is how long a lock outlives a holder that never releases it.
func (g *RedisGuard) TTL() time.Duration {
	return g.ttl
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := "checkout:inflight:" + key
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return func() {
		_ = releaseLock.Run(context.WithoutCancel(ctx), g.rdb, []string{lockKey}, token).Err()
	}, nil
}
