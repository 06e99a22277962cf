package retention

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderGuard records that a reminder was emitted so it fires once per period.
// MarkFired reports true only for the first caller of a key within ttl.
type ReminderGuard interface {
	MarkFired(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// MemoryReminderGuard is a process-local ReminderGuard.
type MemoryReminderGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryReminderGuard returns an empty guard. now defaults to time.Now.
func NewMemoryReminderGuard(now func() time.Time) *MemoryReminderGuard {
	if now == nil {
		now = time.Now
	}
	return &MemoryReminderGuard{seen: make(map[string]time.Time), now: now}
}

func (g *MemoryReminderGuard) MarkFired(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expires, ok := g.seen[key]; ok && now.Before(expires) {
		return false, nil
	}
	g.seen[key] = now.Add(ttl)
	return true, nil
}

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisReminderGuard keeps fired markers in Redis so restarts do not re-fire.
type RedisReminderGuard struct {
	client setNXer
	prefix string
}

// NewRedisReminderGuard wraps a go-redis client.
func NewRedisReminderGuard(client setNXer) *RedisReminderGuard {
	return &RedisReminderGuard{client: client, prefix: "account-service:"}
}

func (g *RedisReminderGuard) MarkFired(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
