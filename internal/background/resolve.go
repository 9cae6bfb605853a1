// internal/background/resolve.go
//
// Background resolver: spec value → render instruction.
//
// Workflow
// --------
//   1. nil or unknown variant            → NoOp (caller keeps what it had).
//   2. Solid                             → background-color.
//   3. Gradient with ≥2 valid colors     → linear-gradient; page adds
//      cover/no-repeat/fixed/center, card uses plain background.
//      Fewer than two                    → exactly the Solid result.
//   4. Image (page)                      → url("…") cover/no-repeat/fixed/center.
//   5. Custom / Sandbox (page)           → sanitise; "" → Clear; no element
//      marker → wrap in <style>; else markup as-is.
//
// Notes
// -----
//   - Pure.  Theme decisions live in theme.go and never feed back into CSS.
package background

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yanizio/linkcard/internal/contact"
	"github.com/yanizio/linkcard/internal/contrast"
	"github.com/yanizio/linkcard/internal/sanitize"
)

// Op is the instruction verb.
type Op int

const (
	NoOp Op = iota
	CSS
	Markup
	Clear
)

func (o Op) String() string {
	switch o {
	case CSS:
		return "css"
	case Markup:
		return "markup"
	case Clear:
		return "clear"
	default:
		return "noop"
	}
}

// Instruction tells a surface how to paint itself.  CSS is set for Op CSS,
// Markup for Op Markup.  Sandboxed marks markup that must be isolated.
type Instruction struct {
	Op        Op
	CSS       string
	Markup    string
	Sandboxed bool
}

const pageFill = "background-size: cover; background-repeat: no-repeat; " +
	"background-attachment: fixed; background-position: center;"

var elementRe = regexp.MustCompile(`(?i)<[a-z]`)

// ResolvePage maps a page background to an instruction.
func ResolvePage(b Background) Instruction {
	switch v := b.(type) {
	case Solid:
		return solid(v.Color, PageDefault)
	case Gradient:
		stops := validColors(v.Colors)
		if len(stops) < 2 {
			return solid(first(stops), PageDefault)
		}
		return Instruction{Op: CSS, CSS: fmt.Sprintf("background-image: %s; %s",
			linear(v.Angle, stops), pageFill)}
	case Image:
		u := contact.EscapeURL(v.URL)
		if u == "" {
			return Instruction{Op: NoOp}
		}
		return Instruction{Op: CSS, CSS: fmt.Sprintf(`background-image: url("%s"); %s`,
			u, pageFill)}
	case Custom:
		return code(sanitize.Custom, v.Code)
	case Sandbox:
		return code(sanitize.Sandbox, v.Code)
	default:
		return Instruction{Op: NoOp}
	}
}

// ResolveCard maps a card background to an instruction.
func ResolveCard(c CardBackground) Instruction {
	switch v := c.(type) {
	case Solid:
		return solid(v.Color, CardDefault)
	case Gradient:
		stops := validColors(v.Colors)
		if len(stops) < 2 {
			return solid(first(stops), CardDefault)
		}
		return Instruction{Op: CSS, CSS: fmt.Sprintf("background: %s;",
			linear(v.Angle, stops))}
	default:
		return Instruction{Op: NoOp}
	}
}

func solid(color, def string) Instruction {
	c := contrast.NormalizeHex(color)
	if c == "" {
		c = def
	}
	return Instruction{Op: CSS, CSS: fmt.Sprintf("background-color: %s;", c)}
}

func linear(angle int, stops []string) string {
	return fmt.Sprintf("linear-gradient(%ddeg, %s)",
		ClampAngle(angle), strings.Join(stops, ", "))
}

func code(kind sanitize.Kind, raw string) Instruction {
	clean := sanitize.Code(kind, raw)
	if clean == "" {
		return Instruction{Op: Clear}
	}
	if !elementRe.MatchString(clean) {
		clean = "<style>" + clean + "</style>"
	}
	return Instruction{Op: Markup, Markup: clean, Sandboxed: kind == sanitize.Sandbox}
}

// validColors normalises stops, drops invalid ones, and keeps at most
// MaxGradientColors.
func validColors(in []string) []string {
	out := make([]string, 0, MaxGradientColors)
	for _, c := range in {
		if h := contrast.NormalizeHex(c); h != "" {
			out = append(out, h)
			if len(out) == MaxGradientColors {
				break
			}
		}
	}
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
