// Package assets embeds the browser page served at "/".
package assets

import (
	"embed"
	"io/fs"
)

//go:embed web
var FS embed.FS

// Static returns the page files rooted at web/ (index.html, app.js, style.css).
func Static() fs.FS {
	sub, err := fs.Sub(FS, "web")
	if err != nil {
		// web/ is embedded at build time; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}
