// internal/view/render.go
//
// Central view engine: template lookup, override chain, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (fragments, e-mails).
//
// Lookup precedence (first hit wins):
//   1. <root>/sites/<host>/components/<comp>/templates/<tpl>.html
//   2. <root>/themes/<theme>/components/<comp>/templates/<tpl>.html
//   3. templates/<tpl>.html inside the component's embedded fs.FS
//
// All templates in the same directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.
//
// execName() chooses the template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template/parse"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yanizio/linkcard/internal/tenant"
	"github.com/yanizio/linkcard/internal/theme"
)

// ErrNotFound is returned when no layer provides the template.
var ErrNotFound = errors.New("view: template not found")

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // cache the parsed set
	CacheSkip                       // never cache (development overrides)
)

// Engine resolves and renders component templates.
type Engine struct {
	root string
	lru  *lru.Cache[string, *template.Template]
}

// New returns an Engine reading overrides below root ("" means the working
// directory).  Parsed sets are kept in an LRU of the given capacity.
func New(root string, capacity int) *Engine {
	if capacity < 1 {
		capacity = 1024
	}
	sets, _ := lru.New[string, *template.Template](capacity) // errors only on capacity < 1
	return &Engine{root: root, lru: sets}
}

//
// public helpers
//

// Render executes the template set and streams it to w.
func (e *Engine) Render(ctx *tenant.Context, w http.ResponseWriter, comp, name string,
	data any, embedded fs.FS, policy CachePolicy) error {

	t, err := e.load(ctx, comp, name, embedded, policy)
	if err != nil {
		return err
	}
	// Render into a buffer first so a template error never leaves a
	// half-written 200 behind.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return fmt.Errorf("execute %s/%s: %w", comp, name, err)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderToString mirrors Render but returns the HTML.
func (e *Engine) RenderToString(ctx *tenant.Context, comp, name string, data any,
	embedded fs.FS) (template.HTML, error) {

	t, err := e.load(ctx, comp, name, embedded, CacheDefault)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// tenant, component, and base name, obeying the provided cache policy.
func (e *Engine) load(ctx *tenant.Context, comp, name string, embedded fs.FS,
	policy CachePolicy) (*template.Template, error) {

	host := ctx.Host()
	key := strings.Join([]string{host, ctx.Theme, comp, name}, "::")

	if policy != CacheSkip {
		if t, ok := e.lru.Get(key); ok {
			return t, nil
		}
	}

	t, err := e.parse(ctx, host, comp, name, embedded)
	if err != nil {
		return nil, err
	}
	if policy != CacheSkip {
		e.lru.Add(key, t)
	}
	return t, nil
}

func (e *Engine) parse(ctx *tenant.Context, host, comp, name string,
	embedded fs.FS) (*template.Template, error) {

	base := template.New(name).Funcs(buildFuncMap(ctx))
	file := name + ".html"

	var disk []string
	if host != "" {
		disk = append(disk, filepath.Join(e.root, "sites", host, "components", comp, "templates", file))
	}
	if ctx.Theme != "" {
		disk = append(disk, filepath.Join(e.root, "themes", ctx.Theme, "components", comp, "templates", file))
	}
	for _, p := range disk {
		if _, err := os.Stat(p); err == nil {
			// Parse all *.html in the same directory so sub-templates work.
			return base.ParseGlob(filepath.Join(filepath.Dir(p), "*.html"))
		}
	}

	if embedded != nil {
		p := path.Join("templates", file)
		if _, err := fs.Stat(embedded, p); err == nil {
			return base.ParseFS(embedded, "templates/*.html")
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, comp, name)
}

//
// func-map builders
//

func buildFuncMap(rctx *tenant.Context) template.FuncMap {
	prefix := "/themes/" + rctx.Theme + "/assets/"
	fm := theme.FuncMap(func(p string) string { return prefix + p })
	for k, v := range uaFuncMap() { // UA helpers (browser/os parsing)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has a non-empty "<name>.html" (file-based template), run
//     that.  A file holding only {{ define }} blocks parses as empty.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil && tmpl.Tree != nil &&
		!parse.IsEmptyTree(tmpl.Tree.Root) {
		return name + ".html"
	}
	return name
}
