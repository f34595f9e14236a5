package presets

import (
	"embed"
)

// FS provides the embedded default presets.
//
//go:embed *.yaml
var FS embed.FS
