// assets/embed.go
//
// Bundled static data for the server:
//   - countries.json: reference dataset (code, centroid, official flag, names per locale).
//   - migrations/*.sql: SQLite schema applied at startup.

package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed countries.json migrations/*.sql
var FS embed.FS

// CountriesJSON returns the raw country dataset.
// If path is non-empty the file on disk is used instead of the embedded copy.
func CountriesJSON(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return FS.ReadFile("countries.json")
}

// Migrations exposes the embedded migrations directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}
