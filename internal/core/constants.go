package core

import "os"

// FileMode aliases os.FileMode so callers do not need to import os for permissions.
type FileMode = os.FileMode

const (
	// PermOwnerRW is owner read/write only (config files).
	PermOwnerRW FileMode = 0o600

	// PermFile is the conventional mode for generated, world-readable files.
	PermFile FileMode = 0o644

	// PermDir is the conventional mode for created directories.
	PermDir FileMode = 0o755
)

const (
	// DefaultManifestName is the manifest written into the project root.
	DefaultManifestName = "requirements.txt"

	// DefaultSourceExtension is the only source extension scanned unless configured otherwise.
	DefaultSourceExtension = ".py"

	// DefaultThirdPartyMarker marks a module origin as an installed distribution.
	DefaultThirdPartyMarker = "site-packages"
)
