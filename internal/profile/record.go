// internal/profile/record.go
//
// JSON document stored under the "profile" setting key.
//
// Context
// -------
// The stored shape is flat and tagged by "type", matching what earlier
// deployments wrote:
//
//	{"type":"gradient","gradient":{"colors":["#111","#eee"],"angle":45}}
//	{"type":"image","image_id":12}
//	{"type":"custom","custom_code":"<style>…</style>"}
//	{"type":"sandbox","sandbox":{"code":"<canvas>…"}}
//
// Only the fields of the active variant are written.  On read an unknown or
// missing type falls back to the surface default, so a damaged document can
// never blank the page.
package profile

import (
	"encoding/json"

	"github.com/yanizio/linkcard/internal/background"
)

type gradientDoc struct {
	Colors []string `json:"colors"`
	Angle  int      `json:"angle"`
}

type codeDoc struct {
	Code string `json:"code"`
}

type backgroundDoc struct {
	Type       string       `json:"type"`
	Color      string       `json:"color,omitempty"`
	Gradient   *gradientDoc `json:"gradient,omitempty"`
	ImageID    int64        `json:"image_id,omitempty"`
	CustomCode string       `json:"custom_code,omitempty"`
	Sandbox    *codeDoc     `json:"sandbox,omitempty"`
}

type socialDoc struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type buttonDoc struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type document struct {
	Title                string         `json:"title"`
	Tagline              string         `json:"tagline"`
	Bio                  string         `json:"bio"`
	FooterText           *string        `json:"branding_footer_text,omitempty"`
	ShowFooterBranding   *bool          `json:"show_footer_branding,omitempty"`
	AvatarID             int64          `json:"avatar_id,omitempty"`
	Socials              []socialDoc    `json:"socials"`
	Buttons              []buttonDoc    `json:"buttons"`
	Background           *backgroundDoc `json:"background,omitempty"`
	CardBackground       *backgroundDoc `json:"card_background,omitempty"`
	KeepExistingHomepage bool           `json:"keep_homepage"`
	CustomCSS            string         `json:"custom_css,omitempty"`
	AdminSlug            string         `json:"admin_slug,omitempty"`
}

// encode turns Settings into the stored JSON.
func encode(s Settings) ([]byte, error) {
	footer := s.FooterText
	show := s.ShowFooterBranding
	doc := document{
		Title:                s.Title,
		Tagline:              s.Tagline,
		Bio:                  s.Bio,
		FooterText:           &footer,
		ShowFooterBranding:   &show,
		AvatarID:             s.Avatar.ID,
		Socials:              make([]socialDoc, 0, len(s.Socials)),
		Buttons:              make([]buttonDoc, 0, len(s.Buttons)),
		Background:           pageDoc(s.PageBackground),
		CardBackground:       cardDoc(s.CardBackground),
		KeepExistingHomepage: s.KeepExistingHomepage,
		CustomCSS:            s.CustomCSS,
		AdminSlug:            s.AdminSlug,
	}
	for _, l := range s.Socials {
		doc.Socials = append(doc.Socials, socialDoc{Type: l.Channel, Value: l.Value})
	}
	for _, b := range s.Buttons {
		doc.Buttons = append(doc.Buttons, buttonDoc{Label: b.Label, Value: b.Value})
	}
	return json.Marshal(doc)
}

// decode fills Settings from stored JSON on top of def.  Empty input returns
// def unchanged.
func decode(raw []byte, def Settings) (Settings, error) {
	if len(raw) == 0 {
		return def, nil
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return def, err
	}

	s := def
	if doc.Title != "" {
		s.Title = doc.Title
	}
	s.Tagline = doc.Tagline
	s.Bio = doc.Bio
	if doc.FooterText != nil {
		s.FooterText = *doc.FooterText
	}
	if doc.ShowFooterBranding != nil {
		s.ShowFooterBranding = *doc.ShowFooterBranding
	}
	s.Avatar = MediaRef{ID: doc.AvatarID}
	s.Socials = make([]SocialLink, 0, len(doc.Socials))
	for _, l := range doc.Socials {
		s.Socials = append(s.Socials, SocialLink{Channel: l.Type, Value: l.Value})
	}
	s.Buttons = make([]ActionButton, 0, len(doc.Buttons))
	for _, b := range doc.Buttons {
		s.Buttons = append(s.Buttons, ActionButton{Label: b.Label, Value: b.Value})
	}
	if bg := pageFromDoc(doc.Background); bg != nil {
		s.PageBackground = bg
	}
	if cb := cardFromDoc(doc.CardBackground); cb != nil {
		s.CardBackground = cb
	}
	s.KeepExistingHomepage = doc.KeepExistingHomepage
	s.CustomCSS = doc.CustomCSS
	if doc.AdminSlug != "" {
		s.AdminSlug = doc.AdminSlug
	}
	return s, nil
}

//
// Background mapping
//

func pageDoc(b background.Background) *backgroundDoc {
	switch v := b.(type) {
	case background.Solid:
		return &backgroundDoc{Type: string(background.KindSolid), Color: v.Color}
	case background.Gradient:
		return &backgroundDoc{Type: string(background.KindGradient),
			Gradient: &gradientDoc{Colors: v.Colors, Angle: v.Angle}}
	case background.Image:
		return &backgroundDoc{Type: string(background.KindImage), ImageID: v.MediaID}
	case background.Custom:
		return &backgroundDoc{Type: string(background.KindCustom), CustomCode: v.Code}
	case background.Sandbox:
		return &backgroundDoc{Type: string(background.KindSandbox),
			Sandbox: &codeDoc{Code: v.Code}}
	default:
		return nil
	}
}

func cardDoc(c background.CardBackground) *backgroundDoc {
	if b, ok := c.(background.Background); ok {
		return pageDoc(b)
	}
	return nil
}

func pageFromDoc(d *backgroundDoc) background.Background {
	if d == nil {
		return nil
	}
	switch background.Kind(d.Type) {
	case background.KindSolid:
		return background.Solid{Color: d.Color}
	case background.KindGradient:
		if d.Gradient == nil {
			return background.Gradient{}
		}
		return background.Gradient{Colors: d.Gradient.Colors,
			Angle: background.ClampAngle(d.Gradient.Angle)}
	case background.KindImage:
		return background.Image{MediaID: d.ImageID}
	case background.KindCustom:
		return background.Custom{Code: d.CustomCode}
	case background.KindSandbox:
		if d.Sandbox == nil {
			return background.Sandbox{}
		}
		return background.Sandbox{Code: d.Sandbox.Code}
	default:
		return nil
	}
}

// cardFromDoc accepts legacy card documents that carry only a color.
func cardFromDoc(d *backgroundDoc) background.CardBackground {
	if d == nil {
		return nil
	}
	switch background.Kind(d.Type) {
	case background.KindGradient:
		if d.Gradient == nil {
			return nil
		}
		return background.Gradient{Colors: d.Gradient.Colors,
			Angle: background.ClampAngle(d.Gradient.Angle)}
	case background.KindSolid, "":
		if d.Color == "" {
			return nil
		}
		return background.Solid{Color: d.Color}
	default:
		return nil
	}
}
