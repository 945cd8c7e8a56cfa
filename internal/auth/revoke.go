package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker is the logout-side denylist. A revoked JTI stays listed until the
// token's natural expiry; there is nothing to clean up after that.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "revoked:"

// RedisRevoker backs the denylist with redis so revocation survives restarts
// and is shared across instances.
type RedisRevoker struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisRevoker(cfg RedisConfig) *RedisRevoker {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisRevoker{redisdb: redisdb}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)

	if ttl <= 0 {
		// already past natural expiry, nothing to deny
		return nil
	}

	return r.redisdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.redisdb.Exists(ctx, revokedKeyPrefix+jti).Result()

	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisRevoker) Ping(ctx context.Context) error {
	return r.redisdb.Ping(ctx).Err()
}

func (r *RedisRevoker) Close() error {
	return r.redisdb.Close()
}

// MemoryRevoker keeps the denylist in-process. Used in tests and when no
// redis address is configured; revocation then lasts only for the process
// lifetime, which still beats cookie clearing alone.
type MemoryRevoker struct {
	mu sync.RWMutex
	m  map[string]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		m: make(map[string]time.Time),
	}
}

func (r *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	if time.Now().After(until) {
		return nil
	}

	r.mu.Lock()
	r.m[jti] = until
	r.mu.Unlock()

	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	until, ok := r.m[jti]
	r.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if time.Now().After(until) {
		r.mu.Lock()
		delete(r.m, jti)
		r.mu.Unlock()

		return false, nil
	}

	return true, nil
}
