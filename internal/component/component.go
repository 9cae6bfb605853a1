// internal/component/component.go
//
// Package component defines the plug-in contract between the host and the
// feature packages under components/.  A component contributes tenant DB
// migrations and mounts its routes on each tenant's router; it reaches
// per-tenant resources only through TenantInfo, which *tenant.Tenant
// satisfies without this package importing it.
package component

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkcard/internal/routing"
)

// Component is one mountable feature.
//
// Migrations may return nil.  Mount registers page and API routes on the
// tenant router, e.g.
//
//	r.Get("/card", h.card)
//	r.Route("/api/profile", func(api chi.Router) { ... })
//
// A Mount error skips the component for that tenant only.
type Component interface {
	Name() string
	Migrations() []string
	Mount(r chi.Router, t TenantInfo) error
}

// TenantInfo is the read-only view of a tenant handed to Mount.
type TenantInfo interface {
	Host() string
	Title() string
	GetDB() *sqlx.DB
	GetConfig() map[string]string
	ThemeName() string
	AliasCache() *routing.AliasCache

	// Home renders the theme's home page.  It reports false, having
	// written nothing, when the theme has no home template.
	Home(w http.ResponseWriter, r *http.Request) bool
}
