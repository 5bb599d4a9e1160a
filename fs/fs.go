// Package appfs embeds static application files.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
