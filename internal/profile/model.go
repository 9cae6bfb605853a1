// internal/profile/model.go
//
// Profile aggregate, one per tenant.
//
// Context
// -------
// Settings is read with defaults filled in and written back whole.  The
// page and card backgrounds are closed sum types from internal/background;
// the admin editor and the JSON store speak a flat shape that is mapped in
// record.go and wire.go.
//
// Notes
// -----
//   - Code fields (custom, sandbox, custom CSS) are stored decoded and
//     already sanitised.  Base64 exists only on the wire.
//   - Media references carry the ID; URL is resolved on read and never
//     stored.
//   - Oxford commas, two spaces after periods.
package profile

import (
	"errors"

	"github.com/yanizio/linkcard/internal/background"
)

// Sentinel errors.
var (
	ErrEmptySlug    = errors.New("profile: admin slug cannot be empty")
	ErrInvalidSlug  = errors.New("profile: admin slug must contain a letter or digit")
	ErrReservedSlug = errors.New("profile: admin slug is reserved")
)

// MediaRef points at an uploaded media item.
type MediaRef struct {
	ID  int64
	URL string
}

// SocialLink is one social/contact entry.  Channel is canonical (see
// contact.Canonical).
type SocialLink struct {
	Channel string
	Value   string
}

// ActionButton is one call-to-action button.
type ActionButton struct {
	Label string
	Value string
}

// Settings is the root aggregate.
type Settings struct {
	Title              string
	Tagline            string
	Bio                string
	FooterText         string
	ShowFooterBranding bool
	Avatar             MediaRef
	Socials            []SocialLink
	Buttons            []ActionButton

	PageBackground background.Background
	CardBackground background.CardBackground

	KeepExistingHomepage bool
	CustomCSS            string
	AdminSlug            string
}

// Warning is a non-fatal save note shown by the editor.
type Warning struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Options carries per-deployment defaults.  Built from config by the
// caller; this package never reads configuration itself.
type Options struct {
	FooterText     string
	PageColor      string
	CardColor      string
	GradientAngle  int
	AdminSlug      string
	ReservedSlugs  []string
	MaxGradientLen int
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		FooterText:    "Made with link-card",
		PageColor:     background.PageDefault,
		CardColor:     background.CardDefault,
		GradientAngle: 180,
		AdminSlug:     "mm",
		ReservedSlugs: []string{
			"wp-admin", "wp-login", "wp-json", "admin", "login", "assets",
			"api", "card", "uploads", "metrics",
		},
		MaxGradientLen: background.MaxGradientColors,
	}
}

// withDefaults fills zero fields of o from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FooterText == "" {
		o.FooterText = d.FooterText
	}
	if o.PageColor == "" {
		o.PageColor = d.PageColor
	}
	if o.CardColor == "" {
		o.CardColor = d.CardColor
	}
	if o.GradientAngle == 0 {
		o.GradientAngle = d.GradientAngle
	}
	if o.AdminSlug == "" {
		o.AdminSlug = d.AdminSlug
	}
	if len(o.ReservedSlugs) == 0 {
		o.ReservedSlugs = d.ReservedSlugs
	}
	if o.MaxGradientLen <= 0 || o.MaxGradientLen > background.MaxGradientColors {
		o.MaxGradientLen = d.MaxGradientLen
	}
	return o
}

// Defaults returns the aggregate a tenant sees before its first save.
func Defaults(o Options, siteTitle string) Settings {
	o = o.withDefaults()
	return Settings{
		Title:              siteTitle,
		FooterText:         o.FooterText,
		ShowFooterBranding: true,
		Socials:            []SocialLink{},
		Buttons:            []ActionButton{},
		PageBackground:     background.Solid{Color: o.PageColor},
		CardBackground:     background.Solid{Color: o.CardColor},
		AdminSlug:          o.AdminSlug,
	}
}
