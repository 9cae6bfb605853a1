// internal/sanitize/sanitize.go
//
// Sanitisers for user-supplied background code and profile text.
//
// Context
// -------
// Two code-injection surfaces exist and they carry different risk:
//
//   - Custom code is rendered inline in the page DOM, same origin.  Every
//     <script> goes, then a bluemonday allow-list keeps rich text plus
//     <style>, <div>, <iframe>, and <canvas> with a narrow attribute set.
//   - Sandbox code is mounted in an isolated frame.  Inline <script> stays,
//     but anything that fetches from elsewhere (<script src>, stylesheet
//     <link>, <base>) is removed.  No further allow-list runs.
//
// Both strip PHP / server template delimiters first so that stored text can
// never be mistaken for executable server code.
//
// Notes
// -----
//   - Every function here is pure and total.  Worst case is "".
//   - Policies are built once; bluemonday policies are safe for concurrent
//     use after construction.
//   - Oxford commas, two spaces after periods.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Kind selects the sanitiser applied to background code.
type Kind string

const (
	Custom  Kind = "custom"
	Sandbox Kind = "sandbox"
)

// SandboxMaxBytes caps sandbox input before any other processing.
const SandboxMaxBytes = 100_000

// -----------------------------------------------------------------------------
// Policies
// -----------------------------------------------------------------------------

var (
	customPolicy = newCustomPolicy()
	bioPolicy    = bluemonday.UGCPolicy()
	textPolicy   = bluemonday.StrictPolicy()
)

// newCustomPolicy extends the UGC baseline with embedded CSS and a few layout
// elements.  AllowUnsafe is required for <style> text to survive; scripts are
// still dropped because the element is never allowed.
func newCustomPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowUnsafe(true)
	p.AllowElements("style")
	p.AllowAttrs("class", "id", "style").OnElements("div", "iframe", "canvas")
	p.AllowAttrs("src", "width", "height", "frameborder", "allowfullscreen").
		OnElements("iframe")
	p.AllowAttrs("width", "height").OnElements("canvas")
	return p
}

// -----------------------------------------------------------------------------
// Background code
// -----------------------------------------------------------------------------

var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptSelfRe    = regexp.MustCompile(`(?is)<script\b[^>]*/>`)
	scriptOpenTagRe = regexp.MustCompile(`(?is)^<script\b[^>]*>`)
	scriptSrcOpenRe = regexp.MustCompile(`(?is)<script\b[^>]*\ssrc\s*=[^>]*>`)
	markupRe        = regexp.MustCompile(`(?i)<[a-z/!?]`)
	srcAttrRe       = regexp.MustCompile(`(?i)\ssrc\s*=`)
	stylesheetRe    = regexp.MustCompile(
		`(?is)<link\b[^>]*\srel\s*=\s*["']?stylesheet["']?[^>]*/?>`)
	baseTagRe = regexp.MustCompile(`(?is)<base\b[^>]*/?>`)
)

var phpDelims = []string{"<?php", "<?PHP", "<?=", "<?", "?>"}

// Code sanitises background code of the given kind.  Unknown kinds yield "".
func Code(kind Kind, raw string) string {
	switch kind {
	case Custom:
		return customCode(raw)
	case Sandbox:
		return sandboxCode(raw)
	default:
		return ""
	}
}

// customCode treats input without any markup as a bare stylesheet.  The HTML
// policy would entity-encode its child combinators.
func customCode(raw string) string {
	s := StripServerTags(raw)
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = scriptSelfRe.ReplaceAllString(s, "")
	if !markupRe.MatchString(s) {
		return stripCSSDanger(s)
	}
	return strings.TrimSpace(customPolicy.Sanitize(s))
}

func sandboxCode(raw string) string {
	s := Truncate(raw, SandboxMaxBytes)
	s = StripServerTags(s)
	s = scriptSelfRe.ReplaceAllStringFunc(s, func(tag string) string {
		if srcAttrRe.MatchString(tag) {
			return ""
		}
		return tag
	})
	s = scriptBlockRe.ReplaceAllStringFunc(s, func(block string) string {
		if srcAttrRe.MatchString(scriptOpenTagRe.FindString(block)) {
			return ""
		}
		return block
	})
	// Unclosed <script src> still loads.
	s = scriptSrcOpenRe.ReplaceAllString(s, "")
	s = stylesheetRe.ReplaceAllString(s, "")
	s = baseTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// StripServerTags removes PHP-style delimiters until none remain.  Removing
// one can splice two halves into a new one, hence the loop.
func StripServerTags(s string) string {
	for {
		before := s
		for _, d := range phpDelims {
			s = strings.ReplaceAll(s, d, "")
		}
		if s == before {
			return s
		}
	}
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// -----------------------------------------------------------------------------
// Profile text
// -----------------------------------------------------------------------------

// Text strips every tag and returns plain, unescaped text.  Callers escape on
// output.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// Bio keeps basic rich text (links, emphasis, lists) and drops the rest.
func Bio(s string) string {
	return strings.TrimSpace(bioPolicy.Sanitize(s))
}

var cssDangerRe = regexp.MustCompile(`(?i)@import\b|expression\s*\(|javascript\s*:`)

// CSS cleans the free-form extra page CSS.  Angle brackets go first so the
// value can never close a <style> element.
func CSS(s string) string {
	return stripCSSDanger(strings.NewReplacer("<", "", ">", "").Replace(s))
}

func stripCSSDanger(s string) string {
	for {
		next := cssDangerRe.ReplaceAllString(s, "")
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
}
