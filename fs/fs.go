// Package appfs exposes the embedded assets shipped with the binary.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
