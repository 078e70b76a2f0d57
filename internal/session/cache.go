package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/talentscout/internal/models"
)

// Cache holds session-level copies of base profiles.
type Cache interface {
	Get(ctx context.Context, userID string) (*models.BaseProfile, bool, error)
	Set(ctx context.Context, p models.BaseProfile) error
	Delete(ctx context.Context, userID string) error
}

type memoryEntry struct {
	profile models.BaseProfile
	expires time.Time
}

// MemoryCache is a process-local Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (*models.BaseProfile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && !c.now().Before(e.expires) {
		delete(c.entries, userID)
		return nil, false, nil
	}
	p := e.profile.Clone()
	return &p, true, nil
}

func (c *MemoryCache) Set(_ context.Context, p models.BaseProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID] = memoryEntry{profile: p.Clone(), expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// RedisCache shares session profiles between instances.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "talentscout:profile:"}
}

func (c *RedisCache) key(userID string) string { return c.prefix + userID }

func (c *RedisCache) Get(ctx context.Context, userID string) (*models.BaseProfile, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var p models.BaseProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, p models.BaseProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(p.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
