package stdlib

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/log"
)

// Classifier maps top-level import names to origins.
type Classifier struct {
	resolver Resolver
	markers  []string
	root     string
}

// NewClassifier creates a Classifier. Empty markers default to site-packages.
// root, when set, lets modules loaded from inside the project be reported as local.
func NewClassifier(resolver Resolver, markers []string, root string) *Classifier {
	if len(markers) == 0 {
		markers = []string{core.DefaultThirdPartyMarker}
	}
	return &Classifier{resolver: resolver, markers: markers, root: root}
}

// Classification is the outcome of classifying a batch of names.
type Classification struct {
	// Origins holds one entry per classified name, sorted by name.
	Origins []Origin

	// ProbeErr is set when the interpreter could not be probed at all.
	// Every name is then classified as standard library.
	ProbeErr error
}

// External returns the sorted names classified as third-party.
func (c *Classification) External() []string {
	names := make([]string, 0, len(c.Origins))
	for _, o := range c.Origins {
		if o.External() {
			names = append(names, o.Name)
		}
	}
	return names
}

// Lookup returns the origin recorded for name.
func (c *Classification) Lookup(name string) (Origin, bool) {
	i, found := slices.BinarySearchFunc(c.Origins, name, func(o Origin, target string) int {
		return strings.Compare(o.Name, target)
	})
	if !found {
		return Origin{}, false
	}
	return c.Origins[i], true
}

// Classify resolves every name in one batch. It never fails: a name that
// cannot be loaded, or a probe that cannot run, classifies as standard library.
func (c *Classifier) Classify(ctx context.Context, names []string) *Classification {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := &Classification{Origins: make([]Origin, 0, len(sorted))}
	if len(sorted) == 0 {
		return out
	}

	results, err := c.resolver.Resolve(ctx, sorted)
	if err != nil {
		log.Warn("module probe failed, treating every import as standard library", "error", err)
		out.ProbeErr = err
		for _, name := range sorted {
			out.Origins = append(out.Origins, Origin{Name: name, Kind: OriginError, Detail: err.Error()})
		}
		return out
	}

	for _, name := range sorted {
		origin := c.origin(name, results)
		log.Debug("classified import", "name", name, "kind", origin.Kind, "path", origin.Path)
		out.Origins = append(out.Origins, origin)
	}
	return out
}

// IsExternal classifies a single name.
func (c *Classifier) IsExternal(ctx context.Context, name string) bool {
	classification := c.Classify(ctx, []string{name})
	origin, ok := classification.Lookup(name)
	return ok && origin.External()
}

func (c *Classifier) origin(name string, results map[string]ProbeResult) Origin {
	res, ok := results[name]
	if !ok {
		return Origin{Name: name, Kind: OriginError, Detail: "no result reported by the interpreter"}
	}

	switch res.Status {
	case ProbeOK:
		return Origin{Name: name, Kind: c.kindForFile(res.File), Path: res.File}
	case ProbeNotFound:
		return Origin{Name: name, Kind: OriginNotFound, Detail: res.Error}
	default:
		return Origin{Name: name, Kind: OriginError, Detail: res.Error}
	}
}

func (c *Classifier) kindForFile(file string) OriginKind {
	if file == "" {
		return OriginBuiltin
	}
	for _, marker := range c.markers {
		if marker != "" && strings.Contains(file, marker) {
			return OriginThirdParty
		}
	}
	if c.root != "" && isWithin(c.root, file) {
		return OriginLocal
	}
	return OriginStdlib
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
