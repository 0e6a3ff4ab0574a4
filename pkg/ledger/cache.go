package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/recouvro/recouvro/pkg/observability"
)

// Cache is a read-through Redis cache for recovery reads and per-company
// edition lists. A nil *Cache is valid and disables caching entirely; the
// cache is best-effort and never fails a store operation.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCache creates a cache around an existing Redis client.
func NewCache(client *redis.Client, ttl time.Duration, metrics *observability.Metrics) *Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, metrics: metrics}
}

func recoveryKey(id string) string        { return "recovery:" + id }
func editionsKey(kompassID string) string { return "editions:" + kompassID }

// GetRecovery returns a cached recovery, if present.
func (c *Cache) GetRecovery(ctx context.Context, id string) (*Recovery, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, recoveryKey(id)).Result()
	if err != nil {
		c.miss("recovery")
		return nil, false
	}

	var rec Recovery
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// Corrupt entry: drop it and fall back to the store.
		c.client.Del(ctx, recoveryKey(id))
		c.miss("recovery")
		return nil, false
	}

	c.hit("recovery")
	return &rec, true
}

// SetRecovery stores a recovery with the configured TTL.
func (c *Cache) SetRecovery(ctx context.Context, rec *Recovery) {
	if c == nil || c.client == nil || rec == nil {
		return
	}
	if data, err := json.Marshal(rec); err == nil {
		c.client.Set(ctx, recoveryKey(rec.ID), data, c.ttl)
	}
}

// DeleteRecovery evicts a single recovery.
func (c *Cache) DeleteRecovery(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, recoveryKey(id))
}

// GetEditionYears returns the cached edition list for a company.
func (c *Cache) GetEditionYears(ctx context.Context, kompassID string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, editionsKey(kompassID)).Result()
	if err != nil {
		c.miss("editions")
		return nil, false
	}

	var years []string
	if err := json.Unmarshal([]byte(data), &years); err != nil {
		c.client.Del(ctx, editionsKey(kompassID))
		c.miss("editions")
		return nil, false
	}

	c.hit("editions")
	return years, true
}

// SetEditionYears caches the edition list for a company.
func (c *Cache) SetEditionYears(ctx context.Context, kompassID string, years []string) {
	if c == nil || c.client == nil {
		return
	}
	if data, err := json.Marshal(years); err == nil {
		c.client.Set(ctx, editionsKey(kompassID), data, c.ttl)
	}
}

// InvalidateCompany evicts the edition list after a write touching the
// company. When an update moves an entry between companies the old list
// ages out within the TTL.
func (c *Cache) InvalidateCompany(ctx context.Context, kompassID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, editionsKey(kompassID))
}

func (c *Cache) hit(keyType string) {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(keyType).Inc()
	}
}

func (c *Cache) miss(keyType string) {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(keyType).Inc()
	}
}
