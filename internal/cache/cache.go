// Package cache provides a small key/value cache with in-process and Redis
// backends.
//
// Backends:
//   - memory (go-cache, single instance, development and tests)
//   - redis (shared between replicas)
//
// Values are strings; callers encode structured values themselves.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client is the cache contract used by the provider profile cache and the
// readiness check.
type Client interface {
	// Get returns ErrNotFound when the key is missing or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value. ttl == 0 means the backend default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error

	Close() error

	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Driver     string
	Keys       int64
	UsedMemory string
	Hits       int64
	Misses     int64
}

// Config selects and configures a backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port, redis only
	Password string
	DB       int
	Prefix   string // prepended to every key

	// DefaultTTL applies when Set is called with ttl == 0. Zero means no expiry.
	DefaultTTL time.Duration
	// MaxItems bounds the memory backend. Zero means unbounded.
	MaxItems int
}

var ErrNotFound = errors.New("cache: key not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New builds the backend named by cfg.Driver. Unknown drivers fall back to memory.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		c, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return NewMemory(cfg), nil
	}
}
