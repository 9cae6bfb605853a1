// internal/background/apply.go
//
// Surface state and the apply step.
//
// Context
// -------
// Page instructions land on the outermost surface: CSS goes to the <body>
// style; markup is mounted in one generated container that fills the
// viewport behind the content, ignores pointer events, and is hidden from
// assistive technology.  Sandbox markup is further isolated inside an
// <iframe sandbox="allow-scripts" srcdoc=…>.
//
// Apply always rebuilds the container from scratch, so applying the same
// instruction twice yields the same Surface and never a second container.
package background

import (
	"html/template"
	"strings"
)

// ContainerID is the DOM id of the generated background container.
const ContainerID = "page-bg"

const containerStyle = "position:fixed;inset:0;z-index:-1;" +
	"pointer-events:none;overflow:hidden;"

// Surface is the rendered state of the page background.
type Surface struct {
	BodyStyle template.CSS
	Container template.HTML
}

// Apply returns the surface after ins is applied to prev.
func Apply(prev Surface, ins Instruction) Surface {
	switch ins.Op {
	case CSS:
		return Surface{BodyStyle: template.CSS(ins.CSS)}
	case Markup:
		return Surface{Container: container(ins)}
	case Clear:
		return Surface{BodyStyle: prev.BodyStyle}
	default:
		return prev
	}
}

// Render is Apply on an empty surface.
func Render(ins Instruction) Surface { return Apply(Surface{}, ins) }

func container(ins Instruction) template.HTML {
	var b strings.Builder
	b.WriteString(`<div id="` + ContainerID + `" class="page-bg" aria-hidden="true" style="`)
	b.WriteString(containerStyle)
	b.WriteString(`">`)
	if ins.Sandboxed {
		b.WriteString(`<iframe sandbox="allow-scripts" title="" tabindex="-1" `)
		b.WriteString(`style="border:0;width:100%;height:100%;" srcdoc="`)
		b.WriteString(template.HTMLEscapeString(ins.Markup))
		b.WriteString(`"></iframe>`)
	} else {
		b.WriteString(ins.Markup)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

// CardStyle returns the inline style for a card surface, or "" for NoOp.
func CardStyle(ins Instruction) template.CSS {
	if ins.Op != CSS {
		return ""
	}
	return template.CSS(ins.CSS)
}
