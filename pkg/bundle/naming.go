package bundle

import (
	"strings"
)

// FileName returns the source name of the bundle file for baseName and locale.
// Slash-separated base names use one file per locale in a directory
// (units/fr_CA.res); dotted base names use class-style names
// (com/example/Names_fr_CA.toml, with the root bundle at com/example/Names.toml).
func FileName(baseName, localeID, ext string) string {
	if strings.Contains(baseName, ".") {
		name := strings.ReplaceAll(baseName, ".", "/")
		if localeID != "" {
			name += "_" + localeID
		}
		return name + ext
	}
	return strings.TrimSuffix(baseName, "/") + "/" + localeID + ext
}
