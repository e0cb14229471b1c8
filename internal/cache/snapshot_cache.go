// Package cache holds the dashboard snapshot shared by the dashboard and
// profile screens.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/dyike/NamaaGo/internal/models"
)

// FetchFunc loads a fresh snapshot from the backend.
type FetchFunc func(ctx context.Context, userID string) (*models.DashboardData, error)

type cachedSnapshot struct {
	data      *models.DashboardData
	fetchedAt time.Time
}

// SnapshotCache serves one fetch per user within the TTL. Refresh always
// goes to the backend.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedSnapshot
	// Invalidate bumps a user's generation and Purge bumps the epoch. A
	// fetch that started before either does not store its result.
	generation map[string]uint64
	epoch      uint64
	group      singleflight.Group
	ttl        time.Duration
	enabled    bool
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewSnapshotCache(ttl time.Duration, enabled bool, log logrus.FieldLogger) *SnapshotCache {
	return &SnapshotCache{
		entries:    make(map[string]*cachedSnapshot),
		generation: make(map[string]uint64),
		ttl:        ttl,
		enabled:    enabled && ttl > 0,
		log:        log,
		now:        time.Now,
	}
}

// Get returns the cached snapshot when it is younger than the TTL,
// otherwise fetches it. Concurrent misses for the same user share one call.
func (c *SnapshotCache) Get(ctx context.Context, userID string, fetch FetchFunc) (*models.DashboardData, error) {
	if c.enabled {
		c.mu.RLock()
		cached, ok := c.entries[userID]
		c.mu.RUnlock()
		if ok && c.now().Sub(cached.fetchedAt) <= c.ttl {
			c.log.WithField("user_id", userID).Debug("using cached snapshot")
			return cached.data, nil
		}
	}
	return c.load(ctx, "get:"+userID, userID, fetch)
}

// Refresh bypasses the cache and replaces the entry on success.
func (c *SnapshotCache) Refresh(ctx context.Context, userID string, fetch FetchFunc) (*models.DashboardData, error) {
	return c.load(ctx, "refresh:"+userID, userID, fetch)
}

func (c *SnapshotCache) load(ctx context.Context, key, userID string, fetch FetchFunc) (*models.DashboardData, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		gen, epoch := c.generation[userID], c.epoch
		c.mu.RUnlock()

		data, err := fetch(ctx, userID)
		if err != nil {
			return nil, err
		}
		if c.enabled {
			c.mu.Lock()
			if c.generation[userID] == gen && c.epoch == epoch {
				c.entries[userID] = &cachedSnapshot{data: data, fetchedAt: c.now()}
			} else {
				c.log.WithField("user_id", userID).Debug("dropping snapshot fetched before invalidation")
			}
			c.mu.Unlock()
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.DashboardData), nil
}

func (c *SnapshotCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.generation[userID]++
	c.mu.Unlock()
}

func (c *SnapshotCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]*cachedSnapshot)
	c.epoch++
	c.mu.Unlock()
}
