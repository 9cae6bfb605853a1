// components/profile/pages.go
//
// Server-rendered pages: the public card and the editor shell.
//
// Context
// -------
// The card page resolves the stored backgrounds into a Surface (body style
// plus optional container) and a card style, then renders card.html
// through the view engine, so a site or theme may override the markup.
//
// Notes
// -----
//   - The card sends its own CSP: inline styles are required for the
//     background, and a sandbox background runs inline script inside its
//     srcdoc iframe, which inherits the parent policy.
//   - Buttons render only when both label and value are set.
package profile

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/background"
	"github.com/yanizio/linkcard/internal/metrics"
	core "github.com/yanizio/linkcard/internal/profile"
	"github.com/yanizio/linkcard/internal/requestinfo"
	"github.com/yanizio/linkcard/internal/sanitize"
	"github.com/yanizio/linkcard/internal/tenant"
	"github.com/yanizio/linkcard/internal/view"
)

const (
	cardCSP = "default-src 'self'; img-src 'self' data: https:; " +
		"style-src 'self' 'unsafe-inline'; font-src 'self' data: https:; " +
		"frame-src 'self' https:; object-src 'none'; base-uri 'self'; " +
		"frame-ancestors 'none'"
	sandboxCSP = cardCSP + "; script-src 'self' 'unsafe-inline'"
)

// cardPage is the card.html data.
type cardPage struct {
	Ctx       *tenant.Context
	View      core.PublicView
	Bio       template.HTML
	Surface   background.Surface
	CardStyle template.CSS
	CardClass string
	Socials   []cardLink
	Buttons   []cardLink
}

// cardLink carries a URL already normalised by contact.Normalize, which
// refuses script-bearing schemes.  template.URL keeps tel: and sms: links
// intact.
type cardLink struct {
	Label string
	Icon  string
	URL   template.URL
}

// adminConfig is embedded in the shell as JSON.
type adminConfig struct {
	SiteTitle      string            `json:"site_title"`
	PublicURL      string            `json:"public_url"`
	Endpoints      map[string]string `json:"endpoints"`
	MaxUploadBytes int64             `json:"max_upload_bytes"`
}

type adminPage struct {
	Ctx    *tenant.Context
	Config adminConfig
	Script string
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Load(r.Context())
	if err != nil {
		h.pageError(w, "load profile", err)
		return
	}
	if st.KeepExistingHomepage {
		if h.themeHome == nil || !h.themeHome(w, r) {
			http.NotFound(w, r)
		}
		return
	}
	h.renderCard(w, r, st)
}

func (h *handler) card(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Load(r.Context())
	if err != nil {
		h.pageError(w, "load profile", err)
		return
	}
	h.renderCard(w, r, st)
}

func (h *handler) renderCard(w http.ResponseWriter, r *http.Request, st core.Settings) {
	pv := core.BuildPublicView(st, h.svc.Site())
	page := background.ResolvePage(st.PageBackground)
	card := background.ResolveCard(st.CardBackground)

	ctx := tenant.NewContext(r, h.theme)
	ctx.Head.SetTitle(pv.Title)
	desc := pv.Tagline
	if desc == "" {
		desc = sanitize.Text(pv.Bio)
	}
	ctx.Head.Description(desc)
	ctx.Head.Favicon(pv.AvatarURL)
	ctx.Head.Property("og:type", "profile")
	ctx.Head.Property("og:title", pv.Title)
	ctx.Head.Property("og:description", desc)
	ctx.Head.Property("og:image", pv.AvatarURL)
	ctx.Head.Property("og:url", h.svc.Site().PublicURL())
	ctx.Head.Style(st.CustomCSS)

	socials := make([]cardLink, 0, len(pv.Socials))
	for _, s := range pv.Socials {
		socials = append(socials, cardLink{Label: s.Type, Icon: s.Icon, URL: template.URL(s.URL)})
	}
	buttons := make([]cardLink, 0, len(pv.Buttons))
	for _, b := range pv.Buttons {
		if b.Label != "" && b.Value != "" && b.URL != "" {
			buttons = append(buttons, cardLink{Label: b.Label, URL: template.URL(b.URL)})
		}
	}

	data := cardPage{
		Ctx:       ctx,
		View:      pv,
		Bio:       template.HTML(pv.Bio), // sanitised with the UGC policy on save
		Surface:   background.Render(page),
		CardStyle: template.CSS(string(background.CardStyle(card)) + " color: " + pv.CardTextColor + ";"),
		CardClass: "card--" + pv.CardTheme,
		Socials:   socials,
		Buttons:   buttons,
	}

	if page.Sandboxed {
		w.Header().Set("Content-Security-Policy", sandboxCSP)
	} else {
		w.Header().Set("Content-Security-Policy", cardCSP)
	}
	if err := h.views.Render(ctx, w, Name, "card", data, templates, view.CacheDefault); err != nil {
		h.pageError(w, "render card", err)
		return
	}
	metrics.ProfileViews.WithLabelValues(requestinfo.DeviceClass(ctx.Info)).Inc()
}

func (h *handler) adminShell(w http.ResponseWriter, r *http.Request) {
	site := h.svc.Site()
	ctx := tenant.NewContext(r, h.theme)
	ctx.Head.SetTitle(site.Title + " · Profile editor")
	ctx.Head.Meta("robots", "noindex")

	data := adminPage{
		Ctx: ctx,
		Config: adminConfig{
			SiteTitle: site.Title,
			PublicURL: site.PublicURL(),
			Endpoints: map[string]string{
				"public":     "/api/profile/public",
				"admin":      "/api/profile/admin",
				"save":       "/api/profile/save",
				"upload":     "/api/profile/upload-image",
				"admin_slug": "/api/profile/admin-slug",
			},
			MaxUploadBytes: h.uploads.MaxBytes(),
		},
		Script: h.adminScript,
	}
	w.Header().Set("Cache-Control", "no-store")
	if err := h.views.Render(ctx, w, Name, "admin", data, templates, view.CacheDefault); err != nil {
		h.pageError(w, "render admin shell", err)
	}
}

func (h *handler) pageError(w http.ResponseWriter, what string, err error) {
	zap.L().Error("profile "+what, zap.String("site", h.svc.Site().BaseURL), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
