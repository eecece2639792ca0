package scanning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// LineCache stores recognized lines keyed by image digest
type LineCache interface {
	GetLines(ctx context.Context, key string) ([]string, bool, error)
	SetLines(ctx context.Context, key string, lines []string) error
	Close() error
}

// RedisCache implements LineCache on top of Redis
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at url (redis://...)
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{client: client, prefix: "bizcard:lines:", ttl: ttl}, nil
}

// GetLines returns the cached lines for key; ok is false on a miss
func (r *RedisCache) GetLines(ctx context.Context, key string) ([]string, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached lines: %w", err)
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false, fmt.Errorf("unmarshaling cached lines: %w", err)
	}
	return lines, true, nil
}

// SetLines stores lines under key with the configured TTL (0 keeps them forever)
func (r *RedisCache) SetLines(ctx context.Context, key string, lines []string) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshaling lines: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cached lines: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Cached is a Scanner that remembers recognition results per image.
// Cache failures are logged and never fail a scan.
type Cached struct {
	next  Scanner
	cache LineCache
}

// NewCached wraps next with cache
func NewCached(next Scanner, cache LineCache) *Cached {
	return &Cached{next: next, cache: cache}
}

// imageKey returns the hex SHA-256 of the raw image bytes
func imageKey(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])
}

// ReadLines serves lines from the cache, falling back to the wrapped scanner
func (c *Cached) ReadLines(imageData []byte, contentType string) ([]string, error) {
	key := imageKey(imageData)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	lines, ok, err := c.cache.GetLines(ctx, key)
	cancel()
	if err != nil {
		slog.Warn("Failed to read line cache", "key", key, "error", err)
	}
	if ok {
		slog.Debug("Line cache hit", "key", key, "lines", len(lines))
		return lines, nil
	}

	lines, err = c.next.ReadLines(imageData, contentType)
	if err != nil {
		return nil, err
	}

	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.cache.SetLines(ctx, key, lines); err != nil {
		slog.Warn("Failed to write line cache", "key", key, "error", err)
	}
	return lines, nil
}

// Close closes the wrapped scanner and the cache
func (c *Cached) Close() error {
	return errors.Join(c.next.Close(), c.cache.Close())
}
