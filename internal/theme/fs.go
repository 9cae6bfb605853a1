// internal/theme/fs.go
//
// CollectHTML walks a template tree, since template.ParseGlob has no "**".
package theme

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// CollectHTML returns every *.html file below rootDir in slash form,
// sorted, so later files win a duplicate {{ define }} predictably.
func CollectHTML(rootDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, filepath.ToSlash(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
