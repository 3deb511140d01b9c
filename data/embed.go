package data

import (
	"embed"
	"io/fs"
)

//go:embed *.yaml
var embedded embed.FS

// EmbeddedFS returns the default content tables
func EmbeddedFS() fs.FS {
	return embedded
}
