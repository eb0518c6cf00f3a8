package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned when the key is already held by another caller
var ErrHeld = errors.New("lock already held")

// Guard grants exclusive ownership of a key until it is released or expires
type Guard interface {
	// Acquire returns the ownership token, or ErrHeld when the key is taken
	Acquire(ctx context.Context, key string) (string, error)
	// Release frees the key only while it is still held with token
	Release(ctx context.Context, key, token string) error
}

// SubmissionKey builds the guard key for one submission form of one user
func SubmissionKey(userID, formID string) string {
	return fmt.Sprintf("submit:%s:%s", userID, formID)
}

// releaseScript deletes KEYS[1] only when it still holds ARGV[1]
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard keeps keys in redis with SET NX and a TTL
type RedisGuard struct {
	client   redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, newToken: uuid.NewString}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (string, error) {
	token := g.newToken()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return "", ErrHeld
	}
	return token, nil
}

func (g *RedisGuard) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

type holder struct {
	token   string
	expires time.Time
}

// MemoryGuard is the single-process fallback used when redis is not configured
type MemoryGuard struct {
	mu       sync.Mutex
	ttl      time.Duration
	held     map[string]holder
	now      func() time.Time
	newToken func() string
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		ttl:      ttl,
		held:     make(map[string]holder),
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if h, ok := g.held[key]; ok && now.Before(h.expires) {
		return "", ErrHeld
	}
	token := g.newToken()
	g.held[key] = holder{token: token, expires: now.Add(g.ttl)}
	return token, nil
}

func (g *MemoryGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if h, ok := g.held[key]; ok && h.token == token {
		delete(g.held, key)
	}
	return nil
}
