// internal/contact/contact.go
//
// Contact-value normaliser: (channel, raw) → clickable URL.
//
// Rules
// -----
//  1. Trim.  Empty → "" and the caller drops the entry.
//  2. http:// or https:// → returned as-is after escaping.
//  3. Known platforms → fixed URL template; leading "@", "/", and spaces are
//     stripped from the handle.
//  4. whatsapp → digits only, ≥8 digits → https://wa.me/<digits>.
//  5. email / mail → "mailto:" prefix when the value holds "@" and is not
//     already prefixed.
//  6. phone / call → tel:<digits>.
//  7. Anything else → https:// for a bare domain, escaped passthrough
//     otherwise.
//
// Notes
// -----
//   - Escaping drops unsafe ASCII (quotes, angle brackets, controls), keeps
//     printable non-ASCII text so IDN hosts and localised paths survive,
//     percent-encodes invisible runes, and rejects executable schemes
//     (javascript:, data:, vbscript:), which yield "".
//   - Deterministic; no network, no randomness.
package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Channel names accepted by the profile editor.
const (
	Instagram = "instagram"
	Facebook  = "facebook"
	LinkedIn  = "linkedin"
	YouTube   = "youtube"
	X         = "x"
	TikTok    = "tiktok"
	Snapchat  = "snapchat"
	Telegram  = "telegram"
	WhatsApp  = "whatsapp"
	GitHub    = "github"
	Dribbble  = "dribbble"
	Behance   = "behance"
	Email     = "email"
	Phone     = "phone"
	Website   = "website"
	Other     = "other"
)

// Channels lists every canonical channel in editor order.
var Channels = []string{
	Instagram, Facebook, LinkedIn, YouTube, X, TikTok, Snapchat, Telegram,
	WhatsApp, GitHub, Dribbble, Behance, Email, Phone, Website, Other,
}

var templates = map[string]string{
	Instagram: "https://instagram.com/",
	Facebook:  "https://facebook.com/",
	LinkedIn:  "https://linkedin.com/in/",
	YouTube:   "https://youtube.com/",
	X:         "https://x.com/",
	"twitter": "https://x.com/",
	TikTok:    "https://www.tiktok.com/@",
	Snapchat:  "https://www.snapchat.com/add/",
	Telegram:  "https://t.me/",
	GitHub:    "https://github.com/",
	Dribbble:  "https://dribbble.com/",
	Behance:   "https://www.behance.net/",
}

var bareDomainRe = regexp.MustCompile(`^[\pL\pN_.-]+\.\pL{2,}(/.*)?$`)

// Canonical maps editor input to a known channel.  "twitter" becomes "x";
// anything unrecognised becomes "other".
func Canonical(channel string) string {
	c := strings.ToLower(strings.TrimSpace(channel))
	if c == "twitter" {
		return X
	}
	for _, known := range Channels {
		if c == known {
			return c
		}
	}
	return Other
}

// Normalize returns the clickable URL for value on channel.
func Normalize(channel, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return EscapeURL(v)
	}

	ch := strings.ToLower(strings.TrimSpace(channel))
	if tpl, ok := templates[ch]; ok {
		handle := strings.TrimLeft(v, "@/ ")
		return EscapeURL(tpl + handle)
	}

	switch ch {
	case WhatsApp:
		if d := digits(v); len(d) >= 8 {
			return "https://wa.me/" + d
		}
		return EscapeURL(v)
	case Email, "mail":
		if strings.Contains(v, "@") && !strings.HasPrefix(lower, "mailto:") {
			return EscapeURL("mailto:" + v)
		}
		return EscapeURL(v)
	case Phone, "call":
		if d := digits(v); d != "" {
			return "tel:" + d
		}
		return EscapeURL(v)
	}

	if bareDomainRe.MatchString(v) {
		return EscapeURL("https://" + v)
	}
	return EscapeURL(v)
}

// LooksLikeURL reports values the save path stores escaped rather than as
// plain text.
func LooksLikeURL(v string) bool {
	l := strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(l, "http://") ||
		strings.HasPrefix(l, "https://") ||
		strings.HasPrefix(l, "//")
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Escaping
// -----------------------------------------------------------------------------

var blockedSchemes = []string{"javascript:", "data:", "vbscript:"}

// EscapeURL returns "" for executable schemes.  Otherwise unsafe ASCII is
// dropped, printable non-ASCII is kept verbatim, and other runes (format
// controls, non-breaking spaces) are percent-encoded byte by byte.  Spaces
// become %20.
func EscapeURL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteString("%20")
		case urlSafe(r):
			b.WriteRune(r)
		case r < utf8.RuneSelf, r == utf8.RuneError:
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			var buf [utf8.UTFMax]byte
			for _, c := range buf[:utf8.EncodeRune(buf[:], r)] {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
	}
	out := b.String()

	probe := strings.ToLower(out)
	probe = strings.NewReplacer("%20", "", "\t", "").Replace(probe)
	for _, sch := range blockedSchemes {
		if strings.HasPrefix(probe, sch) {
			return ""
		}
	}
	return out
}

func urlSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-._~:/?#[]@!$&'()*+,;=%", r)
}
