// Package bundle carries the vendored Swagger UI distribution compiled into
// the binary. The dist tree is refreshed with `skyview fetch`; nothing here
// reads from disk at run time.
package bundle

import (
	"embed"
	"io/fs"
)

// Version is the upstream Swagger UI release vendored under dist.
const Version = "5.21.0"

// Dir is the embedded directory holding the distribution files.
const Dir = "dist"

// FS contains the embedded Swagger UI distribution.
//
//go:embed dist
var FS embed.FS

// Dist returns the distribution tree rooted at its contents, so callers see
// "index.html" rather than "dist/index.html".
func Dist() (fs.FS, error) {
	return fs.Sub(FS, Dir)
}

// Files lists the distribution files an upstream release contributes. The
// fetch tool extracts exactly this set when refreshing the bundle.
func Files() []string {
	return []string{
		"favicon-16x16.png",
		"favicon-32x32.png",
		"index.css",
		"index.html",
		"oauth2-redirect.html",
		"swagger-initializer.js",
		"swagger-ui-bundle.js",
		"swagger-ui-standalone-preset.js",
		"swagger-ui.css",
	}
}
