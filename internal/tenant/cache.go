// internal/tenant/cache.go
//
// Lazy host → Tenant cache.
//
// Context
// -------
// The first request for a host calls the Loader through singleflight, so a
// burst of cold requests performs one load.  Entries live in a sync.Map
// and are evicted by evictor.go on idle TTL or LRU pressure.
//
// Notes
// -----
//   - Zero Options fields pick the package defaults below.
//   - Close stops the evictor and closes every cached tenant pool.
package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/linkcard/internal/metrics"
)

// Static defaults.  Overridden by the `tenant` config section.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 100
	EvictInterval = 5 * time.Minute
	loadTimeout   = 15 * time.Second
)

// ErrNotFound is returned when a host is not present in the site table.
var ErrNotFound = errors.New("tenant not found")

// Loader turns a host into a live Tenant.
type Loader func(ctx context.Context, host string) (*Tenant, error)

// Options tunes the cache.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdleTTL <= 0 {
		o.IdleTTL = IdleTTL
	}
	if o.MaxEntries < 0 {
		o.MaxEntries = 0
	}
	if o.MaxEntries == 0 {
		o.MaxEntries = MaxEntries
	}
	if o.EvictInterval <= 0 {
		o.EvictInterval = EvictInterval
	}
	return o
}

// Cache lazily loads tenants, stores them in a sync.Map, and evicts them on
// idle TTL or LRU pressure.
type Cache struct {
	load        Loader
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache and starts the background evictor.
func New(load Loader, opts Options) *Cache {
	opts = opts.withDefaults()
	c := &Cache{
		load:       load,
		idleTTL:    opts.IdleTTL,
		maxEntries: opts.MaxEntries,
		done:       make(chan struct{}),
	}
	c.evictTicker = time.NewTicker(opts.EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Tenant for host, loading it on demand.
func (c *Cache) Get(host string) (*Tenant, error) {
	if t, ok := c.touch(host); ok {
		return t, nil
	}

	v, err, _ := c.sfg.Do(host, func() (any, error) {
		// Double-check after singleflight barrier.
		if t, ok := c.touch(host); ok {
			return t, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		start := time.Now()
		ten, err := c.load(ctx, host)
		metrics.TenantLoadSeconds.Observe(time.Since(start).Seconds())
		switch {
		case errors.Is(err, ErrNotFound):
			metrics.TenantLoads.WithLabelValues("not_found").Inc()
			return nil, err
		case err != nil:
			metrics.TenantLoads.WithLabelValues("error").Inc()
			return nil, err
		}
		c.m.Store(host, &entry{tenant: ten, lastSeen: time.Now().UnixNano()})
		metrics.TenantLoads.WithLabelValues("ok").Inc()
		metrics.TenantsActive.Inc()
		return ten, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tenant), nil
}

// Len reports the number of cached tenants.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor and releases every tenant.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.done)
		c.m.Range(func(key, value any) bool {
			c.drop(key.(string), value.(*entry), "shutdown")
			return true
		})
	})
}

func (c *Cache) touch(host string) (*Tenant, bool) {
	v, ok := c.m.Load(host)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
	return ent.tenant, true
}
