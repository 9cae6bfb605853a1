// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - tenants idle longer than idleTTL
//   - least-recently-used tenants when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/metrics"
)

func (c *Cache) evictLoop() {
	for {
		select {
		case <-c.done:
			return
		case now := <-c.evictTicker.C:
			c.evict(now)
		}
	}
}

// evict runs one idle pass followed by one LRU pass.
func (c *Cache) evict(now time.Time) {
	nowNano := now.UnixNano()

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	type kv struct {
		key string
		at  int64
	}
	var live []kv
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		seen := atomic.LoadInt64(&ent.lastSeen)
		idle := time.Duration(nowNano - seen)
		if idle > c.idleTTL {
			c.drop(key.(string), ent, "idle")
			return true
		}
		live = append(live, kv{key: key.(string), at: seen})
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.maxEntries <= 0 || len(live) <= c.maxEntries {
		return
	}
	sort.Slice(live, func(i, j int) bool { return live[i].at < live[j].at })
	for _, item := range live[:len(live)-c.maxEntries] {
		if v, ok := c.m.Load(item.key); ok {
			c.drop(item.key, v.(*entry), "lru")
		}
	}
}

func (c *Cache) drop(host string, ent *entry, reason string) {
	if _, loaded := c.m.LoadAndDelete(host); !loaded {
		return
	}
	if err := ent.tenant.Close(); err != nil {
		zap.L().Warn("tenant close", zap.String("host", host), zap.Error(err))
	}
	zap.L().Info("tenant evicted", zap.String("host", host), zap.String("reason", reason))
	metrics.TenantEvictions.WithLabelValues(reason).Inc()
	metrics.TenantsActive.Dec()
}
