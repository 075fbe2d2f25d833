// Package cache provides the snapshot cache shared by catalog readers.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for missing or expired keys.
var ErrNotFound = errors.New("cache: key not found")

// Cache stores opaque values by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// Config selects and sizes a Cache implementation.
type Config struct {
	Driver   string // "memory" (default) or "redis"
	RedisURL string
	Size     int // memory entries
}

// New builds the Cache named by cfg.Driver.
func New(cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemoryCache(cfg.Size)
	case "redis":
		return NewRedisCache(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("cache: unsupported driver %q", cfg.Driver)
	}
}
