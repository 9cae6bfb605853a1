// internal/contrast/contrast.go
//
// Color parsing, luminance, and text-contrast helpers.
//
// Context
// -------
// Two luminance formulas are in use and they are NOT interchangeable:
//
//   - RelativeLuminance is the WCAG gamma-corrected formula.  The public
//     card uses it to pick the card theme and the contrasting text color.
//   - Brightness is the plain weighted sum (0.299R + 0.587G + 0.114B) / 255.
//     The admin editor swatches and the server-side fallback card use it.
//
// Both compare against 0.5, so a color near the threshold may be "dark" on
// one surface and "light" on the other.
//
// Notes
// -----
//   - Every function is total.  Invalid input never panics.
//   - Oxford commas, two spaces after periods.
package contrast

import (
	"math"
	"strconv"
	"strings"
)

// Text colors returned by the helpers below.
const (
	Black      = "#000000"
	White      = "#ffffff"
	EditorDark = "#111111"
)

// Theme is the light/dark text decision for a surface.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// RGB holds 8-bit channels.
type RGB struct{ R, G, B uint8 }

//
// Parsing
//

// ParseHex accepts 3- or 6-digit hex, with or without a leading "#".
func ParseHex(s string) (RGB, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// NormalizeHex returns the lower-case "#rrggbb" or "#rgb" form of s, or ""
// when s is not a hex color.  The digit count is preserved.
func NormalizeHex(s string) string {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if _, ok := ParseHex(h); !ok {
		return ""
	}
	return "#" + strings.ToLower(h)
}

//
// WCAG path
//

// RelativeLuminance returns the WCAG relative luminance in [0,1].  Invalid
// input yields 0.
func RelativeLuminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

func linear(ch uint8) float64 {
	v := float64(ch) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// IsDark reports luminance < 0.5 on the WCAG path.
func IsDark(hex string) bool { return RelativeLuminance(hex) < 0.5 }

// ContrastingTextColor returns White for dark backgrounds and Black for
// light ones.  Invalid input counts as dark.
func ContrastingTextColor(hex string) string {
	if IsDark(hex) {
		return White
	}
	return Black
}

// ThemeFor maps one color to a Theme on the WCAG path.
func ThemeFor(hex string) Theme {
	if IsDark(hex) {
		return Dark
	}
	return Light
}

//
// Weighted path
//

// Brightness returns the non-gamma-corrected weighted brightness in [0,1].
// ok is false for invalid input.
func Brightness(hex string) (float64, bool) {
	c, ok := ParseHex(hex)
	if !ok {
		return 0, false
	}
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255, true
}

// EditorTextColor is the admin swatch rule: EditorDark above 0.5, else
// White.  Invalid input gets White.
func EditorTextColor(hex string) string {
	if b, ok := Brightness(hex); ok && b > 0.5 {
		return EditorDark
	}
	return White
}

// FallbackTextColor is the server-rendered card rule: Black above 0.5,
// else White.
func FallbackTextColor(hex string) string {
	if b, ok := Brightness(hex); ok && b > 0.5 {
		return Black
	}
	return White
}
