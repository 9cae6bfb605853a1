package profile

import (
	"strings"

	"github.com/yanizio/linkcard/internal/background"
	"github.com/yanizio/linkcard/internal/contact"
	"github.com/yanizio/linkcard/internal/contrast"
	"github.com/yanizio/linkcard/internal/sanitize"
)

// Site is the tenant identity the views need.
type Site struct {
	Title   string
	BaseURL string // scheme://host, no trailing slash
}

func (s Site) url(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

// PublicURL is where the card is served.
func (s Site) PublicURL() string { return s.url("/") }

// AdminURL is the friendly dashboard path for slug.
func (s Site) AdminURL(slug string) string { return s.url("/" + slug + "/") }

// BuildPublicView projects the aggregate onto the public shape.
func BuildPublicView(s Settings, site Site) PublicView {
	v := PublicView{
		Title:     s.Title,
		Tagline:   s.Tagline,
		Bio:       s.Bio,
		AvatarURL: s.Avatar.URL,
		Background: PublicBackground{
			Color:    background.PageDefault,
			Gradient: PublicGradient{Colors: []string{}, Angle: 180},
		},
		CardBackground: PublicCardBackground{Color: cardColor(s.CardBackground)},
		CardTheme:      string(background.CardTheme(s.CardBackground)),
		CardTextColor:  background.CardTextColor(s.CardBackground),
		Socials:        PublicSocials(s.Socials),
		Buttons:        PublicButtons(s.Buttons),
		Footer:         PublicFooter{Show: s.ShowFooterBranding, Text: s.FooterText},
		PublicURL:      site.PublicURL(),
	}

	if s.PageBackground != nil {
		v.Background.Type = string(s.PageBackground.Kind())
	}
	switch b := s.PageBackground.(type) {
	case background.Solid:
		if h := contrast.NormalizeHex(b.Color); h != "" {
			v.Background.Color = h
		}
	case background.Gradient:
		v.Background.Gradient = gradientView(b)
	case background.Image:
		v.Background.ImageURL = b.URL
	}
	return v
}

// BuildAdminView projects the aggregate onto the editor shape.
func BuildAdminView(s Settings, site Site) AdminView {
	v := AdminView{
		Title:   s.Title,
		Tagline: s.Tagline,
		Bio:     s.Bio,
		Avatar:  AdminMedia{ID: s.Avatar.ID, URL: s.Avatar.URL},
		Background: AdminBackground{
			Color:    background.PageDefault,
			Gradient: PublicGradient{Colors: []string{}, Angle: 180},
		},
		CardBackground: AdminCardBackground{
			Type:     string(background.KindSolid),
			Color:    background.CardDefault,
			Gradient: PublicGradient{Colors: []string{}, Angle: 180},
		},
		Socials:              make([]SocialInput, 0, len(s.Socials)),
		Buttons:              make([]ButtonInput, 0, len(s.Buttons)),
		KeepExistingHomepage: s.KeepExistingHomepage,
		FooterText:           s.FooterText,
		ShowFooterBranding:   s.ShowFooterBranding,
		CustomCSS:            sanitize.EncodeBase64(s.CustomCSS),
		AdminSlug:            s.AdminSlug,
		AdminURL:             site.AdminURL(s.AdminSlug),
		PublicURL:            site.PublicURL(),
		Channels:             contact.Channels,
		SandboxMaxBytes:      sanitize.SandboxMaxBytes,
	}

	if s.PageBackground != nil {
		v.Background.Type = string(s.PageBackground.Kind())
	}
	switch b := s.PageBackground.(type) {
	case background.Solid:
		v.Background.Color = b.Color
	case background.Gradient:
		v.Background.Gradient = gradientView(b)
	case background.Image:
		v.Background.ImageID = b.MediaID
		v.Background.ImageURL = b.URL
	case background.Custom:
		v.Background.CustomCode = sanitize.EncodeBase64(b.Code)
	case background.Sandbox:
		v.Background.Sandbox = CodeInput{Code: sanitize.EncodeBase64(b.Code)}
	}

	switch c := s.CardBackground.(type) {
	case background.Solid:
		v.CardBackground.Color = c.Color
	case background.Gradient:
		v.CardBackground.Type = string(background.KindGradient)
		v.CardBackground.Gradient = gradientView(c)
		if len(c.Colors) > 0 {
			v.CardBackground.Color = c.Colors[0]
		}
	}
	v.CardBackground.EditorTextColor = contrast.EditorTextColor(v.CardBackground.Color)

	for _, l := range s.Socials {
		v.Socials = append(v.Socials, SocialInput{Type: l.Channel, Value: l.Value})
	}
	for _, b := range s.Buttons {
		v.Buttons = append(v.Buttons, ButtonInput{Label: b.Label, Value: b.Value})
	}
	return v
}

// PublicSocials normalises links and drops rows without a usable URL.
func PublicSocials(in []SocialLink) []PublicSocial {
	out := make([]PublicSocial, 0, len(in))
	for _, l := range in {
		u := contact.Normalize(l.Channel, l.Value)
		if u == "" {
			continue
		}
		out = append(out, PublicSocial{Type: l.Channel, Value: l.Value, URL: u, Icon: l.Channel})
	}
	return out
}

// PublicButtons normalises button targets.  Half-filled buttons are kept
// here; renderers decide whether to draw them.
func PublicButtons(in []ActionButton) []PublicButton {
	out := make([]PublicButton, 0, len(in))
	for _, b := range in {
		if b.Label == "" && b.Value == "" {
			continue
		}
		u := contact.Normalize("button", b.Value)
		out = append(out, PublicButton{Label: b.Label, Value: b.Value, URL: u})
	}
	return out
}

func gradientView(g background.Gradient) PublicGradient {
	colors := g.Colors
	if colors == nil {
		colors = []string{}
	}
	return PublicGradient{Colors: colors, Angle: background.ClampAngle(g.Angle)}
}

// cardColor is the single color the public view exposes for the card.
func cardColor(c background.CardBackground) string {
	switch v := c.(type) {
	case background.Solid:
		if h := contrast.NormalizeHex(v.Color); h != "" {
			return h
		}
	case background.Gradient:
		for _, col := range v.Colors {
			if h := contrast.NormalizeHex(col); h != "" {
				return h
			}
		}
	}
	return background.CardDefault
}
