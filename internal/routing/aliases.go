// internal/routing/aliases.go
//
// Per-tenant alias table.
//
// Context
// -------
// A tenant in `alias` or `both` routing mode exposes friendly paths that
// resolve to component paths, e.g. the profile admin slug "/mm" → "/admin".
// Aliases live in the tenant DB's `route_alias` table and are mirrored in
// memory.  The mirror is reloaded when its TTL lapses or the site row's
// route_version moves; concurrent reloads collapse into one query.
//
// Writers (the admin slug change) call ReplaceTarget, which swaps the rows
// for one target in a transaction and patches the mirror in place.
package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AliasSchema creates the route_alias table when absent.
const AliasSchema = `CREATE TABLE IF NOT EXISTS route_alias (
    alias_path  VARCHAR(191) NOT NULL PRIMARY KEY,
    target_path VARCHAR(191) NOT NULL,
    KEY idx_route_alias_target (target_path)
)`

type aliasRow struct {
	Alias  string `db:"alias_path"`
	Target string `db:"target_path"`
}

// AliasCache mirrors route_alias.  Construct with NewAliasCache.
type AliasCache struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	paths    map[string]string
	loadedAt time.Time
	version  int

	reload singleflight.Group
}

// NewAliasCache returns an empty mirror that reloads after ttl.
func NewAliasCache(db *sqlx.DB, ttl time.Duration) *AliasCache {
	return &AliasCache{db: db, ttl: ttl, now: time.Now, paths: map[string]string{}}
}

// Load replaces the mirror with the current table contents.
func (c *AliasCache) Load(ctx context.Context) error {
	var rows []aliasRow
	if err := c.db.SelectContext(ctx, &rows,
		"SELECT alias_path, target_path FROM route_alias"); err != nil {
		return fmt.Errorf("load aliases: %w", err)
	}
	paths := make(map[string]string, len(rows))
	for _, r := range rows {
		paths[r.Alias] = r.Target
	}

	c.mu.Lock()
	c.paths = paths
	c.loadedAt = c.now()
	c.mu.Unlock()

	zap.L().Debug("aliases loaded", zap.Int("count", len(paths)))
	return nil
}

// Refresh reloads the mirror when it is older than the TTL or was loaded
// for a different route version.
func (c *AliasCache) Refresh(ctx context.Context, version int) error {
	c.mu.RLock()
	fresh := c.version == version && c.now().Sub(c.loadedAt) <= c.ttl
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	_, err, _ := c.reload.Do("load", func() (any, error) {
		if err := c.Load(ctx); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.version = version
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// Resolve returns the target for path.
func (c *AliasCache) Resolve(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	target, ok := c.paths[path]
	return target, ok
}

// ReplaceTarget makes aliases the only paths that resolve to target.  An
// alias already pointing elsewhere is taken over.
func (c *AliasCache) ReplaceTarget(ctx context.Context, target string, aliases ...string) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin alias tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM route_alias WHERE target_path = ?", target); err != nil {
		return fmt.Errorf("clear aliases for %s: %w", target, err)
	}
	for _, a := range aliases {
		if _, err := tx.ExecContext(ctx,
			"REPLACE INTO route_alias (alias_path, target_path) VALUES (?, ?)", a, target); err != nil {
			return fmt.Errorf("write alias %s: %w", a, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit aliases: %w", err)
	}

	c.mu.Lock()
	for a, t := range c.paths {
		if t == target {
			delete(c.paths, a)
		}
	}
	for _, a := range aliases {
		c.paths[a] = target
	}
	c.mu.Unlock()

	zap.L().Info("aliases replaced", zap.String("target", target), zap.Strings("aliases", aliases))
	return nil
}
