// internal/tenant/loader.go
//
// Cold load: host → *Tenant.
//
// Steps
// -----
//  1. Fetch the `site` row (missing row ⇒ ErrNotFound).
//  2. Fetch key-value config rows.
//  3. Open a small tenant DB pool, from the row DSN or a derived one.
//  4. Apply the host tables (aliases, component switches, ACL) and every
//     component's migrations.
//  5. Warm the alias cache.
//  6. Parse theme templates when the theme exists on disk.
//
// Steps 5 and 6 are best effort; the tenant still serves without them.
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/acl"
	"github.com/yanizio/linkcard/internal/component"
	"github.com/yanizio/linkcard/internal/database"
	"github.com/yanizio/linkcard/internal/routing"
	"github.com/yanizio/linkcard/internal/site"
	"github.com/yanizio/linkcard/internal/theme"
)

// PasswordFunc returns the DB password for a canonical tenant key.
type PasswordFunc func(ctx context.Context, key string) (string, error)

// LoaderOptions configures NewLoader.
type LoaderOptions struct {
	ThemesDir string
	AliasTTL  time.Duration
	Pool      database.Options
	Password  PasswordFunc // used only when the site row has no DSN
	DBAddr    string       // host:port for derived DSNs; see DBAddr
	DevAlias  string       // site host served for localhost requests
}

// NewLoader returns the production Loader backed by the control-plane DB.
func NewLoader(global *sqlx.DB, opts LoaderOptions) Loader {
	if opts.ThemesDir == "" {
		opts.ThemesDir = "themes"
	}
	if opts.AliasTTL <= 0 {
		opts.AliasTTL = 5 * time.Minute
	}
	if opts.Pool == (database.Options{}) {
		opts.Pool = database.TenantOptions()
	}
	return func(ctx context.Context, host string) (*Tenant, error) {
		return loadSite(ctx, global, host, opts)
	}
}

func loadSite(ctx context.Context, global *sqlx.DB, host string, opts LoaderOptions) (*Tenant, error) {
	lookup := lookupHost(host, opts.DevAlias)

	// 1. site row
	rec, err := site.ByHost(ctx, global, lookup)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("site row %s: %w", lookup, err)
	}

	// 2. key-value config
	cfg, err := site.LoadSettings(ctx, global, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("site config %s: %w", lookup, err)
	}

	// 3. tenant DB pool
	dsn := rec.DSN
	if dsn == "" {
		if opts.Password == nil {
			return nil, fmt.Errorf("site %s: no dsn and no password source", lookup)
		}
		key := dbKey(lookup)
		pw, err := opts.Password(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("tenant password %s: %w", key, err)
		}
		dsn = tenantDSN(opts.DBAddr, key, pw)
	}
	db, err := database.OpenWithOptions(ctx, dsn, opts.Pool)
	if err != nil {
		return nil, fmt.Errorf("tenant db %s: %w", lookup, err)
	}

	// 4. schema
	stmts := []string{routing.AliasSchema, ComponentACLSchema}
	stmts = append(stmts, acl.Schema...)
	stmts = append(stmts, component.Migrations()...)
	if err := database.Migrate(ctx, db, stmts...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tenant migrate %s: %w", lookup, err)
	}

	t := &Tenant{
		Meta:    *rec,
		Config:  cfg,
		DB:      db,
		aliases: routing.NewAliasCache(db, opts.AliasTTL),
	}

	// 5. aliases
	if err := t.aliases.Load(ctx); err != nil {
		zap.L().Warn("alias warm-up failed", zap.String("host", lookup), zap.Error(err))
	}

	// 6. theme
	mgr := theme.Manager{BaseDir: opts.ThemesDir}
	th, err := mgr.Load(rec.Theme)
	switch {
	case errors.Is(err, theme.ErrNotFound):
		zap.L().Debug("theme not on disk", zap.String("host", lookup), zap.String("theme", rec.Theme))
	case err != nil:
		zap.L().Warn("theme parse failed", zap.String("host", lookup), zap.Error(err))
	default:
		t.Theme = th
	}

	zap.L().Info("tenant loaded",
		zap.String("host", lookup),
		zap.Uint64("site_id", rec.ID),
		zap.String("theme", rec.Theme),
		zap.String("routing_mode", t.RoutingMode()),
		zap.Int("config_keys", len(cfg)))
	return t, nil
}
