package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"ledger-backend/internal/config"
	"ledger-backend/internal/interfaces"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyFmt = "ledger:idem:"
	pendingMarker     = "pending"

	// DefaultIdempotencyTTL is how long a submitted Idempotency-Key is remembered
	DefaultIdempotencyTTL = 24 * time.Hour
)

// Init connects to Redis. On failure it returns nil and the error so callers
// can fall back to the in-memory store.
func Init(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		// Close the failed client for graceful degradation
		client.Close()
		return nil, err
	}
	log.Printf("[Redis] Connected to %s", cfg.Redis.Addr)
	return client, nil
}

// RedisIdempotency stores Idempotency-Key claims in Redis so retries are
// recognised across server instances.
type RedisIdempotency struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdempotency(client *redis.Client) *RedisIdempotency {
	return &RedisIdempotency{Client: client, TTL: DefaultIdempotencyTTL}
}

func (r *RedisIdempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := r.Client.SetNX(ctx, idempotencyKeyFmt+key, pendingMarker, r.TTL).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	existing, err := r.Client.Get(ctx, idempotencyKeyFmt+key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET, try once more
		ok, err = r.Client.SetNX(ctx, idempotencyKeyFmt+key, pendingMarker, r.TTL).Result()
		return "", ok, err
	}
	if err != nil {
		return "", false, err
	}
	if existing == pendingMarker {
		return "", false, nil
	}
	return existing, false, nil
}

func (r *RedisIdempotency) Complete(ctx context.Context, key, entryID string) error {
	return r.Client.Set(ctx, idempotencyKeyFmt+key, entryID, r.TTL).Err()
}

func (r *RedisIdempotency) Release(ctx context.Context, key string) error {
	return r.Client.Del(ctx, idempotencyKeyFmt+key).Err()
}

// MemoryIdempotency is the single-process fallback used when Redis is off.
type MemoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{keys: make(map[string]string)}
}

func (m *MemoryIdempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.keys[key]; ok {
		if existing == pendingMarker {
			return "", false, nil
		}
		return existing, false, nil
	}
	m.keys[key] = pendingMarker
	return "", true, nil
}

func (m *MemoryIdempotency) Complete(ctx context.Context, key, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = entryID
	return nil
}

func (m *MemoryIdempotency) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

var (
	_ interfaces.IdempotencyStore = (*RedisIdempotency)(nil)
	_ interfaces.IdempotencyStore = (*MemoryIdempotency)(nil)
)
