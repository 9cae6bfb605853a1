// internal/theme/manager.go
//
// Theme discovery and parsing.
//
// Layout on disk:
//
//	themes/<name>/templates/**/*.html   page templates (home.html, …)
//	themes/<name>/assets/...            static files served by the host
//
// Component templates live next to the theme under
// themes/<name>/components/<comp>/templates and are resolved per render by
// internal/view, not here.
package theme

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when the theme directory does not exist.
var ErrNotFound = errors.New("theme not found")

// Manager discovers and loads themes.
type Manager struct {
	BaseDir string // e.g., "themes" (relative) or "/srv/themes" (absolute)
}

// Load parses every template under themes/<name>/templates.  A theme with
// an empty templates directory loads with an empty set.
func (m *Manager) Load(name string) (*Theme, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	root := filepath.Join(m.BaseDir, name)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, name, root)
	}

	th := New(name, root, nil)
	tpl := template.New(name).Funcs(FuncMap(th.AssetFunc))

	themeDir := filepath.Join(root, "templates")
	files, err := CollectHTML(themeDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("walk %s: %w", themeDir, err)
	}
	if len(files) > 0 {
		if _, err := tpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", name, err)
		}
	}

	th.Renderer = tpl
	return th, nil
}
