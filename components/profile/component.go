// components/profile/component.go
//
// Profile component: the link-in-bio card, its editor API, and uploads.
//
// Context
// -------
// cmd/web builds one Component with deployment options and registers it.
// On each tenant's first request the tenant router calls Mount, which
// wires a tenant-scoped profile.Service (setting table, media library,
// alias cache) and registers:
//
//	GET  /api/profile/public         anonymous
//	GET  /api/profile/admin          profile/edit
//	POST /api/profile/save           profile/edit
//	POST /api/profile/admin-slug     profile/edit plus a SlugRoles role
//	POST /api/profile/upload-image   profile/upload
//	GET  /card                       public card page
//	GET  /                           card, or theme home when kept
//	GET  /admin                      editor shell (friendly slug aliases here)
//	GET  /uploads/*                  tenant media files
//	GET  /profile/assets/*           editor bundle
//
// Notes
// -----
//   - API errors are JSON {code, message}; see respond.go.
//   - Oxford commas, two spaces after periods.
package profile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkcard/internal/acl"
	"github.com/yanizio/linkcard/internal/component"
	"github.com/yanizio/linkcard/internal/media"
	core "github.com/yanizio/linkcard/internal/profile"
	"github.com/yanizio/linkcard/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

var errNoDB = errors.New("profile: tenant has no database")

// Name is the component key used by component_acl and role_acl.
const Name = "profile"

// Options configures the component for the whole deployment.
type Options struct {
	Profile     core.Options
	Disk        *media.Disk
	MaxUpload   int64
	Views       *view.Engine
	Scheme      string // scheme for public URLs; "https" when empty
	AdminScript string   // editor bundle loaded by the shell
	SlugRoles   []string // roles allowed to move the admin alias; "admin" when empty
}

// Component implements component.Component.
type Component struct {
	opts Options
}

// New returns a Component.  A nil Disk or Views picks the defaults.
func New(opts Options) *Component {
	if opts.Disk == nil {
		opts.Disk = media.NewDisk("")
	}
	if opts.Views == nil {
		opts.Views = view.New("", 256)
	}
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}
	if len(opts.SlugRoles) == 0 {
		opts.SlugRoles = []string{"admin"}
	}
	if opts.AdminScript == "" {
		opts.AdminScript = assetPrefix + "admin.js"
	}
	return &Component{opts: opts}
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return Name }

// Migrations creates the setting and media tables.
func (c *Component) Migrations() []string {
	return []string{core.Schema, media.Schema}
}

// Mount builds the tenant's service and registers every route on r.
func (c *Component) Mount(r chi.Router, t component.TenantInfo) error {
	db := t.GetDB()
	if db == nil {
		return errNoDB
	}
	site := core.Site{
		Title:   t.Title(),
		BaseURL: c.opts.Scheme + "://" + strings.ToLower(t.Host()),
	}
	lib := media.NewLibrary(db, c.opts.Disk, t.Host(), c.opts.MaxUpload)

	var aliases core.AliasWriter
	if ac := t.AliasCache(); ac != nil {
		aliases = ac
	}

	h := &handler{
		svc:         core.NewService(core.NewSQLStore(db), lib, aliases, site, c.opts.Profile),
		uploads:     lib,
		views:       c.opts.Views,
		theme:       t.ThemeName(),
		themeHome:   t.Home,
		adminScript: c.opts.AdminScript,
	}
	h.routes(r, guards{
		edit:   acl.RequirePermission(db, Name, "edit", denyJSON),
		upload: acl.RequirePermission(db, Name, "upload", denyJSON),
		slug:   acl.RequireRole(db, denyJSON, c.opts.SlugRoles...),
	})
	r.Handle(media.URLPrefix+"*", c.opts.Disk.Handler(t.Host()))
	return nil
}

// guards are the ACL middlewares; tests swap them for pass-throughs.
type guards struct {
	edit, upload, slug func(http.Handler) http.Handler
}

// routes registers the handlers.  The admin slug rewrites site routing, so
// it needs a role on top of profile/edit.
func (h *handler) routes(r chi.Router, g guards) {
	r.Get("/", h.index)
	r.Get("/card", h.card)
	r.Get("/admin", h.adminShell)
	r.Handle(assetPrefix+"*", staticHandler())

	r.Route("/api/profile", func(api chi.Router) {
		api.Get("/public", h.public)
		api.Group(func(ed chi.Router) {
			ed.Use(g.edit)
			ed.Get("/admin", h.admin)
			ed.Post("/save", h.save)
			ed.With(g.slug).Post("/admin-slug", h.adminSlug)
		})
		api.With(g.upload).Post("/upload-image", h.upload)
	})
}
