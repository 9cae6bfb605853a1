// internal/tenant/entry.go
//
// Tenant cache entry and aggregate.
//
// Context
// -------
// A live Tenant aggregates everything the router and Components need to
// serve a single site: its `site` row, per-site DB pool, in-memory config
// map, optional Theme, and the alias cache for friendly paths.  The cache
// stores a pointer to Tenant inside `entry`, along with a `lastSeen`
// UnixNano timestamp used by the evictor for idle and LRU eviction.
//
// Notes
// -----
//   - `Close` is invoked only by the cache evictor; Components must treat
//     Tenant as immutable after initial load.
//   - Tenant satisfies component.TenantInfo and routing.AliasTenant.
//   - Oxford commas, two spaces after periods.
package tenant

import (
	"net/http"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/routing"
	"github.com/yanizio/linkcard/internal/site"
	"github.com/yanizio/linkcard/internal/theme"
)

//
// Cache entry
//

type entry struct {
	tenant   *Tenant
	lastSeen int64 // UnixNano, atomic
}

//
// Tenant aggregate
//

// Tenant groups all per-site runtime assets needed by request handlers.
type Tenant struct {
	Meta   site.Record   // Row from `site`
	Config site.Settings // Key-value pairs from `site_config`
	DB     *sqlx.DB      // Per-site connection pool
	Theme  *theme.Theme  // Active theme; nil when the site has none on disk

	aliases *routing.AliasCache

	routerOnce sync.Once
	router     http.Handler
}

// Host returns the site host the tenant was loaded for.
func (t *Tenant) Host() string { return t.Meta.Host }

// Title prefers the `site_title` config key, then the row title, then the
// host.
func (t *Tenant) Title() string {
	if t.Meta.Title != "" {
		return t.Config.String("site_title", t.Meta.Title)
	}
	return t.Config.String("site_title", t.Meta.Host)
}

func (t *Tenant) GetDB() *sqlx.DB              { return t.DB }
func (t *Tenant) GetConfig() map[string]string { return t.Config }
func (t *Tenant) GetTheme() *theme.Theme       { return t.Theme }

// ThemeName returns the configured theme, even when it failed to load.
func (t *Tenant) ThemeName() string { return t.Meta.Theme }

func (t *Tenant) RoutingMode() string { return routing.NormalizeMode(t.Meta.RoutingMode) }
func (t *Tenant) RouteVersion() int   { return t.Meta.RouteVersion }

func (t *Tenant) AliasCache() *routing.AliasCache { return t.aliases }

// Home renders the theme's home page.  It reports false when there is no
// theme or the theme has no home template.
func (t *Tenant) Home(w http.ResponseWriter, r *http.Request) bool {
	if t.Theme == nil || !t.Theme.Has(theme.HomeTemplate) {
		return false
	}
	ctx := NewContext(r, t.ThemeName())
	ctx.Head.SetTitle(t.Title())
	data := map[string]any{
		"Ctx":    ctx,
		"Title":  t.Title(),
		"Config": t.Config,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Theme.Execute(w, theme.HomeTemplate, data); err != nil {
		// Headers are gone; all we can do is log.
		zap.L().Error("theme home render", zap.String("host", t.Host()), zap.Error(err))
	}
	return true
}

// Close is called by the cache evictor on idle or LRU eviction.
func (t *Tenant) Close() error {
	if t.DB == nil {
		return nil
	}
	return t.DB.Close()
}
