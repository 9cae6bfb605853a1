package background

import "github.com/yanizio/linkcard/internal/contrast"

// themeColor is the color consulted for text contrast.  Gradients use their
// first valid stop; nothing else is averaged.
func themeColor(c CardBackground) string {
	switch v := c.(type) {
	case Solid:
		if h := contrast.NormalizeHex(v.Color); h != "" {
			return h
		}
	case Gradient:
		if stops := validColors(v.Colors); len(stops) > 0 {
			return stops[0]
		}
	}
	return CardDefault
}

// CardTheme returns the light/dark text theme for a card background on the
// WCAG path.
func CardTheme(c CardBackground) contrast.Theme {
	return contrast.ThemeFor(themeColor(c))
}

// CardTextColor returns the WCAG contrasting text color for the card.
func CardTextColor(c CardBackground) string {
	return contrast.ContrastingTextColor(themeColor(c))
}

// FallbackTextColor is the weighted-brightness text color used by the
// server-rendered fallback card.
func FallbackTextColor(c CardBackground) string {
	return contrast.FallbackTextColor(themeColor(c))
}
