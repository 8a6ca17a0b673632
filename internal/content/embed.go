package content

import (
	"embed"
	"io/fs"
)

//go:embed data/*.json
var embeddedPages embed.FS

// EmbeddedPages returns the built-in page payloads rooted so that
// PagePath resolves against it.
func EmbeddedPages() fs.FS {
	return embeddedPages
}
