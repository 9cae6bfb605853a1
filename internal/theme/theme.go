// internal/theme/theme.go
//
// One visual theme: its directory, parsed page templates, and assets.
//
// Context
// -------
// A tenant names its theme in the site row.  The theme supplies the page
// served at "/" when a profile keeps the existing homepage, plus overrides
// for component templates (resolved by internal/view).  Templates reference
// static files with `{{ asset "css/main.css" }}`, which resolves to
// `/themes/<name>/assets/css/main.css`; AssetHandler serves that prefix.
package theme

import (
	"html/template"
	"io"
	"net/http"
	"path"
	"path/filepath"
)

// HomeTemplate is the page served at "/" when a site keeps its existing
// homepage.
const HomeTemplate = "home.html"

// Theme is returned by the Manager once all templates are parsed.
type Theme struct {
	Name      string
	Root      string
	Renderer  *template.Template
	AssetFunc func(string) string
}

// New constructs a Theme whose AssetFunc points at AssetPrefix.
func New(name, root string, tpl *template.Template) *Theme {
	prefix := AssetPrefix(name)
	return &Theme{
		Name:     name,
		Root:     root,
		Renderer: tpl,
		AssetFunc: func(p string) string {
			return prefix + path.Clean("/" + p)[1:]
		},
	}
}

// AssetPrefix is the URL path under which name's assets are served.
func AssetPrefix(name string) string {
	return "/themes/" + name + "/assets/"
}

// AssetHandler serves <Root>/assets below AssetPrefix.
func (t *Theme) AssetHandler() http.Handler {
	dir := http.Dir(filepath.Join(t.Root, "assets"))
	return http.StripPrefix(AssetPrefix(t.Name), http.FileServer(dir))
}

// Has reports whether the theme defines the named template.
func (t *Theme) Has(name string) bool {
	return t != nil && t.Renderer != nil && t.Renderer.Lookup(name) != nil
}

// Execute renders one named template.
func (t *Theme) Execute(w io.Writer, name string, data any) error {
	return t.Renderer.ExecuteTemplate(w, name, data)
}
