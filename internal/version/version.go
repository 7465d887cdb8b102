// Package version exposes the reqscan release version.
package version

import (
	_ "embed"
	"strings"
)

//go:embed .version
var embedded string

// override is set at link time with -ldflags "-X ...version.override=1.2.3".
var override string

// GetVersion returns the release version without a leading "v".
func GetVersion() string {
	if override != "" {
		return strings.TrimPrefix(strings.TrimSpace(override), "v")
	}
	return strings.TrimSpace(embedded)
}
