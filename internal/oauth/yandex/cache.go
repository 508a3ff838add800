package yandex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/audiohub/internal/cache"
	"github.com/dropDatabas3/audiohub/internal/metrics"
)

const DefaultProfileTTL = 5 * time.Minute

// ProfileCache keeps provider profiles keyed by access token for a short TTL.
// Expiry is decided with the injected clock; the backend TTL only reclaims
// space. Errors from the backend are treated as misses.
//
// A nil *ProfileCache is valid and never hits.
type ProfileCache struct {
	backend cache.Client
	ttl     time.Duration
	now     func() time.Time
}

// NewProfileCache wraps backend. ttl <= 0 means DefaultProfileTTL and a nil
// clock means time.Now.
func NewProfileCache(backend cache.Client, ttl time.Duration, now func() time.Time) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ProfileCache{backend: backend, ttl: ttl, now: now}
}

type cachedProfile struct {
	Profile   Profile `json:"p"`
	ExpiresAt int64   `json:"exp"` // unix nanos
}

// profileKey never stores the raw token as a cache key.
func profileKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "yandex:profile:" + hex.EncodeToString(sum[:])
}

func (c *ProfileCache) Get(ctx context.Context, token string) (*Profile, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}
	key := profileKey(token)
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		metrics.ObserveProfileCache(false)
		return nil, false
	}
	var cp cachedProfile
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		_ = c.backend.Delete(ctx, key)
		metrics.ObserveProfileCache(false)
		return nil, false
	}
	if !c.now().Before(time.Unix(0, cp.ExpiresAt)) {
		_ = c.backend.Delete(ctx, key)
		metrics.ObserveProfileCache(false)
		return nil, false
	}
	metrics.ObserveProfileCache(true)
	return &cp.Profile, true
}

func (c *ProfileCache) Set(ctx context.Context, token string, p *Profile) {
	if c == nil || c.backend == nil || p == nil {
		return
	}
	b, err := json.Marshal(cachedProfile{Profile: *p, ExpiresAt: c.now().Add(c.ttl).UnixNano()})
	if err != nil {
		return
	}
	_ = c.backend.Set(ctx, profileKey(token), string(b), c.ttl)
}

func (c *ProfileCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}
