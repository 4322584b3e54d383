// Package res resolves resource files bundled with the tool. A missing
// resource yields an empty result instead of an error so callers can treat
// metadata as optional.
package res

import (
	"embed"
	"strings"
)

//go:embed metadata
var bundled embed.FS

// Read returns the named bundled resource, or nil if it doesn't exist.
func Read(name string) []byte {
	data, err := bundled.ReadFile("metadata/" + name)
	if err != nil {
		return nil
	}

	return data
}

// Version returns the tool version from the bundled metadata, or "" when the
// resource is absent.
func Version() string {
	return strings.TrimSpace(string(Read("version")))
}
