package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implements Client on top of go-cache. Expired entries are
// dropped lazily on read and by the go-cache janitor.
type memoryClient struct {
	prefix   string
	maxItems int
	c        *gocache.Cache

	// guards the capacity check-and-insert in Set
	mu     sync.Mutex
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory builds an in-process cache. The janitor runs every minute.
func NewMemory(cfg Config) *memoryClient {
	def := cfg.DefaultTTL
	if def <= 0 {
		def = gocache.NoExpiration
	}
	return &memoryClient{
		prefix:   cfg.Prefix,
		maxItems: cfg.MaxItems,
		c:        gocache.New(def, time.Minute),
	}
}

func (m *memoryClient) key(k string) string { return m.prefix + k }

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	k := m.key(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxItems > 0 {
		if _, exists := m.c.Get(k); !exists && m.c.ItemCount() >= m.maxItems {
			m.c.DeleteExpired()
			if m.c.ItemCount() >= m.maxItems {
				m.evictSoonest()
			}
		}
	}
	m.c.Set(k, value, ttl)
	return nil
}

// evictSoonest drops the entry closest to expiry. Entries without expiry
// are evicted last.
func (m *memoryClient) evictSoonest() {
	var (
		victim string
		best   int64
	)
	for k, it := range m.c.Items() {
		exp := it.Expiration
		if exp == 0 {
			exp = 1<<63 - 1
		}
		if victim == "" || exp < best {
			victim, best = k, exp
		}
	}
	if victim != "" {
		m.c.Delete(victim)
	}
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(m.key(key))
	return ok, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *memoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
