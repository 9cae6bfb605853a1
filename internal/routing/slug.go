// internal/routing/slug.go
//
// Slugify turns free text into a lower-kebab ASCII path segment:
//
//	"My Links!"  → "my-links"
//	"  --Hi__--" → "hi"
//
// Runs of anything outside [a-z0-9] (after lowercasing) become one dash,
// so punctuation, emoji, and non-ASCII letters vanish.  The result is cut
// to MaxSlugLen bytes and may be empty; callers decide whether that is an
// error.
package routing

import "strings"

// MaxSlugLen caps Slugify output.
const MaxSlugLen = 100

func isSlugRune(r rune) bool { return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' }

// Slugify converts text to a slug.  See the package comment for the rules.
func Slugify(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !isSlugRune(r) })
	slug := strings.Join(words, "-")
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	return slug
}
