// internal/site/repository.go
//
// Control-plane `site` queries.  Suspended and deleted rows are filtered
// in SQL, so callers never see a site they must not serve.  A missing
// host surfaces as sql.ErrNoRows.
package site

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const (
	selectSite = "SELECT id, host, dsn, theme, title, locale, routing_mode, route_version, " +
		"suspended_at, deleted_at FROM site"
	servable = " WHERE suspended_at IS NULL AND deleted_at IS NULL"
)

// ByHost fetches the servable row for host.
func ByHost(ctx context.Context, db *sqlx.DB, host string) (*Record, error) {
	rec := new(Record)
	if err := db.GetContext(ctx, rec, selectSite+servable+" AND host = ? LIMIT 1", host); err != nil {
		return nil, err
	}
	return rec, nil
}

// AllActive lists every servable site ordered by host.
func AllActive(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	var recs []Record
	err := db.SelectContext(ctx, &recs, selectSite+servable+" ORDER BY host")
	return recs, err
}

// CountActive counts servable sites; main logs it at boot.
func CountActive(ctx context.Context, db *sqlx.DB) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM site"+servable)
	return n, err
}
