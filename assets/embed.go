// assets/embed.go
//
// Embedded data shipped with the binary:
//   - catalogs/*.yaml: one game configuration (theme, cards, scoring rules) per file.
//   - sql/*.sql:       SQLite migrations applied at startup, in lexical order.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed catalogs/*.yaml sql/*.sql
var FS embed.FS

// listDir returns the names of files in dir that end with ext, sorted.
func listDir(dir, ext string) ([]string, error) {
	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		out = append(out, path.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// CatalogFiles lists the embedded game configuration files.
func CatalogFiles() ([]string, error) {
	return listDir("catalogs", ".yaml")
}

// MigrationFiles lists the embedded SQL migrations in apply order.
func MigrationFiles() ([]string, error) {
	return listDir("sql", ".sql")
}

// Read returns the contents of an embedded file.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
