// internal/head/builder.go
//
// Builder collects the tags a page wants in its <head>.  One Builder lives
// on each tenant.Context; handlers fill it before rendering and the layout
// emits it with {{ .Ctx.Head.HTML }}.
//
// Every value is escaped on output.  Title, description, and icon are
// single-valued (last call wins); metas and styles accumulate in call
// order with exact duplicates dropped.
package head

import (
	"html/template"
	"strings"
	"sync"
)

type meta struct {
	attr    string // "name" or "property"
	key     string
	content string
}

// Builder is safe for concurrent use.
type Builder struct {
	mu          sync.Mutex
	title       string
	description string
	icon        string
	metas       []meta
	styles      []string
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// SetTitle sets the <title> text.
func (b *Builder) SetTitle(s string) {
	b.mu.Lock()
	b.title = strings.TrimSpace(s)
	b.mu.Unlock()
}

// Description sets <meta name="description">.
func (b *Builder) Description(s string) {
	b.mu.Lock()
	b.description = strings.TrimSpace(s)
	b.mu.Unlock()
}

// Favicon sets the <link rel="icon"> href.
func (b *Builder) Favicon(href string) {
	b.mu.Lock()
	b.icon = strings.TrimSpace(href)
	b.mu.Unlock()
}

// Meta adds <meta name=key content=...>.
func (b *Builder) Meta(key, content string) { b.addMeta(meta{"name", key, content}) }

// Property adds <meta property=key content=...>, the Open Graph form.
func (b *Builder) Property(key, content string) { b.addMeta(meta{"property", key, content}) }

func (b *Builder) addMeta(m meta) {
	if m.key == "" || m.content == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, have := range b.metas {
		if have == m {
			return
		}
	}
	b.metas = append(b.metas, m)
}

// Style adds an inline CSS block.  The caller sanitises css; "</" is
// escaped so the block cannot close its own element.
func (b *Builder) Style(css string) {
	css = strings.TrimSpace(css)
	if css == "" {
		return
	}
	css = strings.ReplaceAll(css, "</", `<\/`)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, have := range b.styles {
		if have == css {
			return
		}
	}
	b.styles = append(b.styles, css)
}

// Title reports the current title text.
func (b *Builder) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// HTML renders every collected tag in layout order: title, description,
// icon, metas, then styles.
func (b *Builder) HTML() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()

	esc := template.HTMLEscapeString
	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>" + esc(b.title) + "</title>")
	}
	if b.description != "" {
		sb.WriteString(`<meta name="description" content="` + esc(b.description) + `">`)
	}
	if b.icon != "" {
		sb.WriteString(`<link rel="icon" href="` + esc(b.icon) + `">`)
	}
	for _, m := range b.metas {
		sb.WriteString(`<meta ` + m.attr + `="` + esc(m.key) + `" content="` + esc(m.content) + `">`)
	}
	for _, css := range b.styles {
		sb.WriteString("<style>" + css + "</style>")
	}
	return template.HTML(sb.String())
}
