// internal/tenant/router.go
//
// Per-tenant chi router, built on first request and kept for the tenant's
// lifetime.
//
// Layout
// ------
//  1. Alias rewrite (before anything inspects the path).
//  2. Request-info enrichment.
//  3. Theme assets under /themes/<name>/assets/.
//  4. Every registered component not switched off in `component_acl`.
//  5. NotFound: the theme home page for "/", else 404.
//
// `component_acl` lists overrides only: a row with enabled = 0 switches a
// component off for this site; components without a row stay on.  A
// missing table is the same as an empty one.
package tenant

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/component"
	"github.com/yanizio/linkcard/internal/requestinfo"
	"github.com/yanizio/linkcard/internal/routing"
	"github.com/yanizio/linkcard/internal/theme"
)

// ComponentACLSchema holds the per-tenant component switch table.
const ComponentACLSchema = `CREATE TABLE IF NOT EXISTS component_acl (
    component VARCHAR(64) NOT NULL PRIMARY KEY,
    enabled   TINYINT(1)  NOT NULL DEFAULT 1
)`

const aclTimeout = 5 * time.Second

// Router returns the tenant's handler, building it on first use.
func (t *Tenant) Router() http.Handler {
	t.routerOnce.Do(func() { t.router = t.buildRouter() })
	return t.router
}

func (t *Tenant) buildRouter() http.Handler {
	r := chi.NewRouter()
	if t.aliases != nil {
		r.Use(routing.Middleware(t))
	}
	r.Use(requestinfo.Enrich)

	if t.Theme != nil {
		r.Handle(theme.AssetPrefix(t.Theme.Name)+"*", t.Theme.AssetHandler())
	}

	ctx, cancel := context.WithTimeout(context.Background(), aclTimeout)
	defer cancel()
	for _, c := range component.Except(t.disabledComponents(ctx)) {
		if err := c.Mount(r, t); err != nil {
			zap.L().Error("component mount failed",
				zap.String("host", t.Host()),
				zap.String("component", c.Name()),
				zap.Error(err))
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" && t.Home(w, req) {
			return
		}
		http.NotFound(w, req)
	})
	return r
}

// disabledComponents reads the switched-off names.  Errors leave every
// component on.
func (t *Tenant) disabledComponents(ctx context.Context) map[string]bool {
	if t.DB == nil {
		return nil
	}
	var names []string
	err := t.DB.SelectContext(ctx, &names, "SELECT component FROM component_acl WHERE enabled = 0")
	switch {
	case isUnknownTable(err):
		return nil
	case err != nil:
		zap.L().Error("component_acl query", zap.String("host", t.Host()), zap.Error(err))
		return nil
	}
	off := make(map[string]bool, len(names))
	for _, n := range names {
		off[n] = true
	}
	return off
}

// isUnknownTable reports MySQL error 1146 (table does not exist).
func isUnknownTable(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1146
}
