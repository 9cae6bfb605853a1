// internal/media/disk.go
//
// Local-disk blob storage for uploaded media.
//
// Context
// -------
// Files live under Root as <host>/<yyyy>/<mm>/<uuid>.<ext>.  The public URL
// is "/uploads/" + the relative path, served by Disk.Handler for the owning
// host only.
//
// Notes
// -----
//   - Writes go to a temp file in the target directory and are renamed into
//     place, so a half-written upload is never served.
//   - Oxford commas, two spaces after periods.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// URLPrefix is the public path under which uploads are served.
const URLPrefix = "/uploads/"

// Disk stores blobs below Root.
type Disk struct {
	Root string
}

// NewDisk returns a Disk rooted at dir.  An empty dir means "./uploads".
func NewDisk(dir string) *Disk {
	if dir == "" {
		dir = "./uploads"
	}
	return &Disk{Root: dir}
}

// Save writes r to rel and returns the public URL.
func (d *Disk) Save(ctx context.Context, r io.Reader, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.Join(d.Root, filepath.FromSlash(rel))
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write media: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close media: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("place media: %w", err)
	}
	return URLPrefix + rel, nil
}

// Delete removes rel; a missing file is not an error.
func (d *Disk) Delete(rel string) error {
	err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Handler serves files for host.  Requests outside host's directory 404.
func (d *Disk) Handler(host string) http.Handler {
	prefix := URLPrefix + hostDir(host) + "/"
	fs := http.StripPrefix(strings.TrimSuffix(URLPrefix, "/"), http.FileServer(http.Dir(d.Root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean(r.URL.Path)
		if !strings.HasPrefix(clean, prefix) || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	})
}

// hostDir turns a request host into a safe single path segment.
func hostDir(host string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(host) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ':':
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "default"
	}
	return s
}
