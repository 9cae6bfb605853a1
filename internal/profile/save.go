// internal/profile/save.go
//
// Save rules: editor request → validated aggregate.
//
// Rules
// -----
//   - Short text (title, tagline, footer, social and button fields) loses
//     every tag.  The bio keeps basic rich text.
//   - Social channels are canonicalised ("twitter" → "x", unknown →
//     "other").  Rows with an empty value are dropped.
//   - Buttons with both fields empty are dropped.  One empty field adds a
//     Warning; the row is still saved.
//   - Values that look like URLs are stored escaped.
//   - Backgrounds are rebuilt from "type".  An unknown type keeps the stored
//     background.  Invalid colors fall back to the stored or default color.
//     Angles are clamped to [0,360].  Code fields are Base64-decoded and
//     sanitised before storage.
//   - Image backgrounds and the avatar must point at existing media, else
//     the ID becomes 0.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanizio/linkcard/internal/background"
	"github.com/yanizio/linkcard/internal/contact"
	"github.com/yanizio/linkcard/internal/contrast"
	"github.com/yanizio/linkcard/internal/sanitize"
)

// MediaChecker reports whether a media ID exists.
type MediaChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CodeRewrite notes that sanitising changed submitted background code.
type CodeRewrite struct {
	Kind sanitize.Kind
}

// applyResult bundles what apply produced besides the new aggregate.
type applyResult struct {
	warnings []Warning
	rewrites []CodeRewrite
}

// apply merges req into prev and returns the aggregate to store.
func apply(ctx context.Context, prev Settings, req SaveRequest, media MediaChecker,
	opts Options) (Settings, applyResult, error) {

	opts = opts.withDefaults()
	next := prev
	var res applyResult

	if req.Title != nil {
		if t := sanitize.Text(*req.Title); t != "" {
			next.Title = t
		}
	}
	if req.Tagline != nil {
		next.Tagline = sanitize.Text(*req.Tagline)
	}
	if req.Bio != nil {
		next.Bio = sanitize.Bio(*req.Bio)
	}
	if req.FooterText != nil {
		next.FooterText = sanitize.Text(*req.FooterText)
	}
	if req.ShowFooterBranding != nil {
		next.ShowFooterBranding = *req.ShowFooterBranding
	}
	if req.KeepExistingHomepage != nil {
		next.KeepExistingHomepage = *req.KeepExistingHomepage
	}
	if req.CustomCSS != nil {
		next.CustomCSS = sanitize.CSS(sanitize.DecodeBase64(*req.CustomCSS))
	}

	if req.AvatarID != nil {
		id, err := checkMedia(ctx, media, *req.AvatarID)
		if err != nil {
			return prev, res, err
		}
		next.Avatar = MediaRef{ID: id}
	}

	if req.Socials != nil {
		next.Socials = cleanSocials(req.Socials)
	}
	if req.Buttons != nil {
		next.Buttons, res.warnings = cleanButtons(req.Buttons)
	}

	if req.Background != nil {
		bg, rw, err := buildPage(ctx, *req.Background, prev.PageBackground, media, opts)
		if err != nil {
			return prev, res, err
		}
		next.PageBackground = bg
		res.rewrites = append(res.rewrites, rw...)
	}
	if req.CardBackground != nil {
		next.CardBackground = buildCard(*req.CardBackground, prev.CardBackground, opts)
	}

	return next, res, nil
}

//
// Lists
//

func cleanSocials(in []SocialInput) []SocialLink {
	out := make([]SocialLink, 0, len(in))
	for _, row := range in {
		v := storedValue(row.Value)
		if v == "" {
			continue
		}
		out = append(out, SocialLink{Channel: contact.Canonical(row.Type), Value: v})
	}
	return out
}

func cleanButtons(in []ButtonInput) ([]ActionButton, []Warning) {
	out := make([]ActionButton, 0, len(in))
	var warns []Warning
	for i, row := range in {
		label := sanitize.Text(row.Label)
		value := storedValue(row.Value)
		switch {
		case label == "" && value == "":
			continue
		case label == "":
			warns = append(warns, Warning{Index: i, Field: "label",
				Message: "Button label is empty; the button is hidden until it has one."})
		case value == "":
			warns = append(warns, Warning{Index: i, Field: "value",
				Message: "Button link is empty; the button is hidden until it has one."})
		}
		out = append(out, ActionButton{Label: label, Value: value})
	}
	return out, warns
}

// storedValue strips tags and escapes URL-looking input.
func storedValue(raw string) string {
	v := sanitize.Text(raw)
	if contact.LooksLikeURL(v) {
		return contact.EscapeURL(v)
	}
	return v
}

//
// Backgrounds
//

func buildPage(ctx context.Context, in BackgroundInput, prev background.Background,
	media MediaChecker, opts Options) (background.Background, []CodeRewrite, error) {

	switch background.Kind(strings.ToLower(strings.TrimSpace(in.Type))) {
	case background.KindSolid:
		return background.Solid{Color: pickColor(in.Color, prevSolid(prev), opts.PageColor)}, nil, nil

	case background.KindGradient:
		return buildGradient(in.Gradient, prevGradient(prev), opts), nil, nil

	case background.KindImage:
		id, err := checkMedia(ctx, media, in.ImageID)
		if err != nil {
			return prev, nil, err
		}
		return background.Image{MediaID: id}, nil, nil

	case background.KindCustom:
		raw := sanitize.DecodeBase64(in.CustomCode)
		clean := sanitize.Code(sanitize.Custom, raw)
		return background.Custom{Code: clean}, rewrites(sanitize.Custom, raw, clean), nil

	case background.KindSandbox:
		var raw string
		if in.Sandbox != nil {
			raw = sanitize.DecodeBase64(in.Sandbox.Code)
		}
		clean := sanitize.Code(sanitize.Sandbox, raw)
		return background.Sandbox{Code: clean}, rewrites(sanitize.Sandbox, raw, clean), nil

	default:
		return prev, nil, nil
	}
}

// buildCard treats a missing type as solid so color-only payloads work.
func buildCard(in BackgroundInput, prev background.CardBackground,
	opts Options) background.CardBackground {

	switch background.Kind(strings.ToLower(strings.TrimSpace(in.Type))) {
	case background.KindSolid, "":
		return background.Solid{Color: pickColor(in.Color, prevSolid(prev), opts.CardColor)}
	case background.KindGradient:
		return buildGradient(in.Gradient, prevGradient(prev), opts)
	default:
		return prev
	}
}

func buildGradient(in *GradientInput, prev *background.Gradient,
	opts Options) background.Gradient {

	g := background.Gradient{Angle: opts.GradientAngle}
	if prev != nil {
		g = *prev
	}
	if in == nil {
		return g
	}

	colors := make([]string, 0, opts.MaxGradientLen)
	for _, c := range in.Colors {
		if h := contrast.NormalizeHex(c); h != "" {
			colors = append(colors, h)
			if len(colors) == opts.MaxGradientLen {
				break
			}
		}
	}
	if len(colors) >= 2 || prev == nil || len(prev.Colors) < 2 {
		g.Colors = colors
	}
	if in.Angle != nil {
		g.Angle = *in.Angle
	}
	g.Angle = background.ClampAngle(g.Angle)
	return g
}

// pickColor returns the normalised candidate, else prev, else def.
func pickColor(candidate, prev, def string) string {
	if h := contrast.NormalizeHex(candidate); h != "" {
		return h
	}
	if h := contrast.NormalizeHex(prev); h != "" {
		return h
	}
	return def
}

func prevSolid(v any) string {
	if s, ok := v.(background.Solid); ok {
		return s.Color
	}
	return ""
}

func prevGradient(v any) *background.Gradient {
	if g, ok := v.(background.Gradient); ok {
		return &g
	}
	return nil
}

func rewrites(kind sanitize.Kind, raw, clean string) []CodeRewrite {
	if strings.TrimSpace(raw) == clean {
		return nil
	}
	return []CodeRewrite{{Kind: kind}}
}

func checkMedia(ctx context.Context, media MediaChecker, id int64) (int64, error) {
	if id <= 0 || media == nil {
		return 0, nil
	}
	ok, err := media.Exists(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("check media %d: %w", id, err)
	}
	if !ok {
		return 0, nil
	}
	return id, nil
}
