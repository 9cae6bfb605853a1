// internal/site/model.go
//
// `site` table row model (control-plane database).
//
// Context
// -------
// Record mirrors one row of the persistent **site** table, capturing the
// host, tenant DSN, theme, title, alias routing preferences, and
// soft-delete flags.  The tenant loader reads it on cold load.
//
//	CREATE TABLE site (
//	    id            INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    host          VARCHAR(256)  NOT NULL UNIQUE,
//	    dsn           VARCHAR(512)  NOT NULL DEFAULT '',
//	    theme         VARCHAR(128)  NOT NULL DEFAULT 'base',
//	    title         VARCHAR(256)  NOT NULL DEFAULT '',
//	    locale        VARCHAR(16)   NOT NULL DEFAULT 'en_US',
//	    routing_mode  VARCHAR(8)    NOT NULL DEFAULT 'both',
//	    route_version INT           NOT NULL DEFAULT 0,
//	    suspended_at  TIMESTAMP NULL,
//	    deleted_at    TIMESTAMP NULL,
//	    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • An empty DSN means "derive from host" (see tenant/host.go).
// • Nullable timestamps are `*time.Time`; callers must nil-check before use.
// • Either timestamp being non-NULL prevents the lazy-loader from serving
//   the site.
package site

import "time"

// Record mirrors one row in the `site` table.
type Record struct {
	ID           uint64     `db:"id"`
	Host         string     `db:"host"`
	DSN          string     `db:"dsn"`
	Theme        string     `db:"theme"`
	Title        string     `db:"title"`
	Locale       string     `db:"locale"`
	RoutingMode  string     `db:"routing_mode"`
	RouteVersion int        `db:"route_version"`
	SuspendedAt  *time.Time `db:"suspended_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}
