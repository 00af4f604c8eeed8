// Package dashboard owns the cached aggregate between refreshes. The
// computation core stays stateless; this cache is the only holder of the
// current result, and reloads are serialized so concurrent invalidations
// cannot race to populate the same slot.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bistboard/bistboard/internal/portfolio"
)

// BuildFunc produces a fresh dashboard aggregate (load + compute).
type BuildFunc func(ctx context.Context) (*portfolio.Dashboard, error)

// Cache holds the current dashboard with lazy population and explicit
// invalidation. Lifecycle: uninitialized -> populated -> invalidated ->
// repopulated.
type Cache struct {
	mu      sync.Mutex
	current *portfolio.Dashboard

	build    BuildFunc
	snapshot *Snapshot // optional warm-start persistence
	log      zerolog.Logger

	listeners []func(*portfolio.Dashboard)
}

// NewCache creates a dashboard cache. snapshot may be nil to disable
// persistence. If a snapshot exists on disk it seeds the cache so the UI
// has data before the first workbook load completes.
func NewCache(build BuildFunc, snapshot *Snapshot, log zerolog.Logger) *Cache {
	c := &Cache{
		build:    build,
		snapshot: snapshot,
		log:      log.With().Str("component", "dashboard_cache").Logger(),
	}

	if snapshot != nil {
		if d, err := snapshot.Load(); err != nil {
			c.log.Warn().Err(err).Msg("Could not load dashboard snapshot")
		} else if d != nil {
			c.current = d
			c.log.Info().Msg("Dashboard seeded from snapshot")
		}
	}

	return c
}

// OnRefresh registers a callback invoked after every successful rebuild.
// Must be called before the server starts handling requests.
func (c *Cache) OnRefresh(fn func(*portfolio.Dashboard)) {
	c.listeners = append(c.listeners, fn)
}

// Get returns the cached dashboard, building it first if the cache is
// empty. Builds are serialized under the cache mutex.
func (c *Cache) Get(ctx context.Context) (*portfolio.Dashboard, error) {
	c.mu.Lock()
	if c.current != nil {
		d := c.current
		c.mu.Unlock()
		return d, nil
	}
	d, err := c.rebuildLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c.notify(d)
	return d, nil
}

// Refresh discards the cached dashboard and rebuilds it.
func (c *Cache) Refresh(ctx context.Context) (*portfolio.Dashboard, error) {
	c.mu.Lock()
	d, err := c.rebuildLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c.notify(d)
	return d, nil
}

// Invalidate clears the cache; the next Get rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.log.Debug().Msg("Dashboard cache invalidated")
}

func (c *Cache) rebuildLocked(ctx context.Context) (*portfolio.Dashboard, error) {
	d, err := c.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	c.current = d

	if c.snapshot != nil {
		if err := c.snapshot.Save(d); err != nil {
			c.log.Warn().Err(err).Msg("Could not persist dashboard snapshot")
		}
	}

	c.log.Info().
		Int("holdings", len(d.Holdings)).
		Float64("total_value", d.Totals.TotalCurrentValue).
		Msg("Dashboard rebuilt")

	return d, nil
}

// notify runs refresh listeners outside the cache mutex so a slow
// subscriber cannot stall readers and listeners may call back into Get.
func (c *Cache) notify(d *portfolio.Dashboard) {
	for _, fn := range c.listeners {
		fn(d)
	}
}
