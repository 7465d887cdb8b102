package collector

import (
	"errors"
	"sort"

	"github.com/indaco/reqscan/internal/pysource"
)

// FailureKind tells why a file's imports were skipped.
type FailureKind int

const (
	// ParseFailed means the file content was not valid Python.
	ParseFailed FailureKind = iota

	// ReadFailed means the file could not be read at all.
	ReadFailed
)

// String returns a human-readable representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case ParseFailed:
		return "parse"
	case ReadFailed:
		return "read"
	default:
		return "unknown"
	}
}

// Failure records a file whose imports were omitted from the result.
type Failure struct {
	// Path is the path of the skipped file.
	Path string

	// Kind classifies the failure.
	Kind FailureKind

	// Err is the underlying error.
	Err error
}

// Line returns the line of a syntax error, or 0 when unknown.
func (f Failure) Line() int {
	var synErr *pysource.SyntaxError
	if errors.As(f.Err, &synErr) {
		return synErr.Line
	}
	return 0
}

// Result is the outcome of a collection run.
type Result struct {
	// Root is the directory that was scanned.
	Root string

	// Names is the set of top-level import names.
	Names map[string]struct{}

	// FilesScanned counts the source files that were parsed successfully.
	FilesScanned int

	// Failures lists the skipped files in walk order.
	Failures []Failure
}

// NewResult returns an empty Result for root.
func NewResult(root string) *Result {
	return &Result{
		Root:     root,
		Names:    make(map[string]struct{}),
		Failures: make([]Failure, 0),
	}
}

// Add inserts a top-level name. Empty names are ignored.
func (r *Result) Add(name string) {
	if name == "" {
		return
	}
	r.Names[name] = struct{}{}
}

// Has reports whether name was collected.
func (r *Result) Has(name string) bool {
	_, ok := r.Names[name]
	return ok
}

// Sorted returns the collected names in ascending order.
func (r *Result) Sorted() []string {
	names := make([]string, 0, len(r.Names))
	for name := range r.Names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasFailures returns true if any file was skipped.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}
