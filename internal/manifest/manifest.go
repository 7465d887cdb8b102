// Package manifest builds and writes the requirements file.
package manifest

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/pip"
)

// Entry is one manifest line and how it was produced.
type Entry struct {
	// Module is the top-level import name.
	Module string

	// Line is the text written to the manifest.
	Line string

	// Pinned is true when Line came from the freeze listing.
	Pinned bool
}

// Build produces one entry per distinct module, sorted by module name with
// a plain byte-order comparison. Modules found in idx use their freeze line
// verbatim; the rest fall back to the bare module name.
func Build(modules []string, idx *pip.Index) []Entry {
	sorted := slices.Clone(modules)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	entries := make([]Entry, 0, len(sorted))
	for _, mod := range sorted {
		if line, ok := idx.Lookup(mod); ok {
			entries = append(entries, Entry{Module: mod, Line: line, Pinned: true})
			continue
		}
		entries = append(entries, Entry{Module: mod, Line: mod})
	}
	return entries
}

// Render joins entry lines with newlines. There is no trailing newline.
func Render(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return strings.Join(lines, "\n")
}

// Unpinned returns the modules that fell back to a bare name.
func Unpinned(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		if !e.Pinned {
			names = append(names, e.Module)
		}
	}
	return names
}

// Write replaces the file at path with the rendered entries.
func Write(ctx context.Context, fs core.FileSystem, path string, entries []Entry) error {
	if err := fs.WriteFile(ctx, path, []byte(Render(entries)), core.PermFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
