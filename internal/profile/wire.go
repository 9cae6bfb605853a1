// internal/profile/wire.go
//
// JSON shapes exchanged with the public card and the admin editor.
//
// Context
// -------
// Two read views exist and they are deliberately asymmetric:
//
//   - PublicView never carries custom or sandbox code, custom CSS, or media
//     IDs.  The card background is reduced to its color.
//   - AdminView carries the full structured objects, code fields re-encoded
//     Base64, and media IDs.
//
// SaveRequest uses pointers and nil slices for "field absent, keep stored
// value".  Code fields arrive Base64-encoded.
package profile

//
// Save input
//

// SaveRequest is the body of POST /api/profile/save.
type SaveRequest struct {
	Title                *string          `json:"title"`
	Tagline              *string          `json:"tagline"`
	Bio                  *string          `json:"bio"`
	FooterText           *string          `json:"branding_footer_text"`
	ShowFooterBranding   *bool            `json:"show_footer_branding"`
	AvatarID             *int64           `json:"avatar_id"`
	Socials              []SocialInput    `json:"socials"`
	Buttons              []ButtonInput    `json:"buttons"`
	Background           *BackgroundInput `json:"background"`
	CardBackground       *BackgroundInput `json:"card_background"`
	KeepExistingHomepage *bool            `json:"keep_homepage"`
	CustomCSS            *string          `json:"custom_css"`
}

// SocialInput is one editor row.
type SocialInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ButtonInput is one editor row.
type ButtonInput struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GradientInput is the gradient sub-object.
type GradientInput struct {
	Colors []string `json:"colors"`
	Angle  *int     `json:"angle"`
}

// CodeInput wraps a Base64 code field.
type CodeInput struct {
	Code string `json:"code"`
}

// BackgroundInput is the flat, type-tagged editor shape for either surface.
type BackgroundInput struct {
	Type       string         `json:"type"`
	Color      string         `json:"color"`
	Gradient   *GradientInput `json:"gradient"`
	ImageID    int64          `json:"image_id"`
	CustomCode string         `json:"custom_code"`
	Sandbox    *CodeInput     `json:"sandbox"`
}

// SaveResponse is returned by a successful save.
type SaveResponse struct {
	OK       bool      `json:"ok"`
	Message  string    `json:"message"`
	Warnings []Warning `json:"warnings"`
}

//
// Public view
//

// PublicGradient is the public gradient sub-object.
type PublicGradient struct {
	Colors []string `json:"colors"`
	Angle  int      `json:"angle"`
}

// PublicBackground omits code and media IDs.
type PublicBackground struct {
	Type     string         `json:"type"`
	Color    string         `json:"color"`
	ImageURL string         `json:"image_url"`
	Gradient PublicGradient `json:"gradient"`
}

// PublicCardBackground exposes the color only.
type PublicCardBackground struct {
	Color string `json:"color"`
}

// PublicSocial is a rendered social link.
type PublicSocial struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// PublicButton is a rendered button.
type PublicButton struct {
	Label string `json:"label"`
	Value string `json:"value"`
	URL   string `json:"url"`
}

// PublicFooter is the branding footer.
type PublicFooter struct {
	Show bool   `json:"show"`
	Text string `json:"text"`
}

// PublicView is the body of GET /api/profile/public.
type PublicView struct {
	Title          string               `json:"site_title"`
	Tagline        string               `json:"site_tagline"`
	Bio            string               `json:"bio"`
	AvatarURL      string               `json:"site_icon_url"`
	Background     PublicBackground     `json:"background"`
	CardBackground PublicCardBackground `json:"card_background"`
	CardTheme      string               `json:"card_theme"`
	CardTextColor  string               `json:"card_text_color"`
	Socials        []PublicSocial       `json:"socials"`
	Buttons        []PublicButton       `json:"buttons"`
	Footer         PublicFooter         `json:"footer"`
	PublicURL      string               `json:"public_url"`
}

//
// Admin view
//

// AdminBackground is the full page background with Base64 code.
type AdminBackground struct {
	Type       string         `json:"type"`
	Color      string         `json:"color"`
	ImageID    int64          `json:"image_id"`
	ImageURL   string         `json:"image_url"`
	Gradient   PublicGradient `json:"gradient"`
	CustomCode string         `json:"custom_code"`
	Sandbox    CodeInput      `json:"sandbox"`
}

// AdminCardBackground is the full card background plus editor hints.
type AdminCardBackground struct {
	Type            string         `json:"type"`
	Color           string         `json:"color"`
	Gradient        PublicGradient `json:"gradient"`
	EditorTextColor string         `json:"editor_text_color"`
}

// AdminMedia is a media reference with its ID.
type AdminMedia struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// AdminView is the body of GET /api/profile/admin.
type AdminView struct {
	Title                string              `json:"site_title"`
	Tagline              string              `json:"site_tagline"`
	Bio                  string              `json:"bio"`
	Avatar               AdminMedia          `json:"site_icon"`
	Background           AdminBackground     `json:"background"`
	CardBackground       AdminCardBackground `json:"card_background"`
	Socials              []SocialInput       `json:"socials"`
	Buttons              []ButtonInput       `json:"buttons"`
	KeepExistingHomepage bool                `json:"keep_homepage"`
	FooterText           string              `json:"branding_footer_text"`
	ShowFooterBranding   bool                `json:"show_footer_branding"`
	CustomCSS            string              `json:"custom_css"`
	AdminSlug            string              `json:"admin_slug"`
	AdminURL             string              `json:"admin_url"`
	PublicURL            string              `json:"public_url"`
	Channels             []string            `json:"channels"`
	SandboxMaxBytes      int                 `json:"sandbox_max_bytes"`
}

// SlugResponse is returned by POST /api/profile/admin-slug.
type SlugResponse struct {
	OK      bool   `json:"ok"`
	Slug    string `json:"slug"`
	URL     string `json:"url"`
	Message string `json:"message"`
}
