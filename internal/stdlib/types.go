package stdlib

import "context"

// OriginKind is the evidence behind a classification.
type OriginKind string

const (
	// OriginThirdParty is a module loaded from a third-party install location.
	OriginThirdParty OriginKind = "third-party"

	// OriginStdlib is a module loaded from any other file on disk.
	OriginStdlib OriginKind = "stdlib"

	// OriginLocal is a module loaded from inside the scanned project.
	OriginLocal OriginKind = "local"

	// OriginBuiltin is a module without a backing file (built-in, frozen or namespace).
	OriginBuiltin OriginKind = "builtin"

	// OriginNotFound is a module the interpreter could not find.
	OriginNotFound OriginKind = "not-found"

	// OriginError is a module whose import raised, or that could not be probed.
	OriginError OriginKind = "error"
)

// Origin records how one name was classified.
type Origin struct {
	// Name is the top-level import name.
	Name string

	// Kind is the classification evidence.
	Kind OriginKind

	// Path is the module file, when the import succeeded.
	Path string

	// Detail carries the failure message for not-found and error kinds.
	Detail string
}

// External reports whether the origin marks the name as a third-party dependency.
func (o Origin) External() bool {
	return o.Kind == OriginThirdParty
}

// ProbeStatus is the outcome reported by the interpreter for one name.
type ProbeStatus string

const (
	// ProbeOK means the module imported; File holds its __file__, if any.
	ProbeOK ProbeStatus = "ok"

	// ProbeNotFound means the module itself does not exist for the interpreter.
	ProbeNotFound ProbeStatus = "not-found"

	// ProbeError means the import raised, including a missing dependency of the module.
	ProbeError ProbeStatus = "error"
)

// ProbeResult is what a Resolver learned about one name.
type ProbeResult struct {
	// Status is the outcome of the import.
	Status ProbeStatus

	// File is the module's __file__, empty for modules without one.
	File string

	// Error is the exception type and message when the import failed.
	Error string
}

// Resolver loads module names in a target interpreter and reports their origins.
type Resolver interface {
	Resolve(ctx context.Context, names []string) (map[string]ProbeResult, error)
}
