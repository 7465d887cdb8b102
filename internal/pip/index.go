package pip

import (
	"bufio"
	"slices"
	"strings"
)

// VersionSeparator splits a pinned freeze line into name and version.
const VersionSeparator = "=="

// Index maps lowercased distribution names to their freeze lines.
type Index struct {
	lines map[string]string
	names map[string]string
}

// ParseFreeze builds an Index from freeze output. Each line containing the
// version separator contributes one entry keyed by the lowercased text before
// the first separator. When two lines share a key, the later one wins.
func ParseFreeze(output string) *Index {
	idx := &Index{
		lines: make(map[string]string),
		names: make(map[string]string),
	}
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		name, _, found := strings.Cut(line, VersionSeparator)
		if !found {
			continue
		}
		key := strings.ToLower(name)
		idx.lines[key] = line
		idx.names[key] = name
	}
	return idx
}

// Lookup returns the freeze line for name, compared case-insensitively.
func (i *Index) Lookup(name string) (string, bool) {
	if i == nil {
		return "", false
	}
	line, ok := i.lines[strings.ToLower(name)]
	return line, ok
}

// Len returns the number of indexed distributions.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.lines)
}

// Names returns the distribution names as written in the freeze output, sorted.
func (i *Index) Names() []string {
	if i == nil {
		return nil
	}
	names := make([]string, 0, len(i.names))
	for _, name := range i.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
