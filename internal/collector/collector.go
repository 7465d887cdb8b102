package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/reqscan/internal/config"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/log"
	"github.com/indaco/reqscan/internal/pysource"
)

// Service collects imports from a project tree.
type Service struct {
	fs         core.FileSystem
	parser     pysource.BatchParser
	extensions []string
	excludes   []string
}

// pendingFile is a source file found by the walk, read but not yet parsed.
type pendingFile struct {
	path    string
	data    []byte
	readErr error
}

// NewService creates a new collector Service. A nil cfg uses the defaults.
func NewService(fs core.FileSystem, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = []string{core.DefaultSourceExtension}
	}
	return &Service{
		fs:         fs,
		parser:     pysource.BuiltinParser{},
		extensions: extensions,
		excludes:   cfg.Exclude,
	}
}

// WithParser sets the parser that decides whether a file is valid Python and
// extracts its imports. The default is pysource.BuiltinParser.
func (s *Service) WithParser(p pysource.BatchParser) *Service {
	if p != nil {
		s.parser = p
	}
	return s
}

// Collect walks root and returns the union of top-level import names found
// in every source file. Files that cannot be read or parsed are recorded as
// failures and skipped; only a missing root or a canceled context is an error.
func (s *Service) Collect(ctx context.Context, root string) (*Result, error) {
	info, err := s.fs.Stat(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", root)
	}

	var pending []pendingFile
	if err := s.walkDirectory(ctx, root, root, &pending); err != nil {
		return nil, err
	}

	parsed, err := s.parseAll(ctx, pending)
	if err != nil {
		return nil, err
	}

	result := NewResult(root)
	for _, file := range pending {
		if file.readErr != nil {
			result.Failures = append(result.Failures, Failure{Path: file.path, Kind: ReadFailed, Err: file.readErr})
			continue
		}
		outcome, ok := parsed[file.path]
		if !ok {
			log.Debug("no parse result reported, using built-in parser", "path", file.path)
			outcome.Imports, outcome.Err = pysource.Parse(file.path, file.data)
		}
		if outcome.Err != nil {
			result.Failures = append(result.Failures, Failure{Path: file.path, Kind: ParseFailed, Err: outcome.Err})
			continue
		}
		for _, imp := range outcome.Imports {
			result.Add(imp.TopLevel())
		}
		result.FilesScanned++
	}

	log.Debug("import collection finished",
		"root", root,
		"files", result.FilesScanned,
		"failures", len(result.Failures),
		"names", len(result.Names))
	return result, nil
}

// parseAll hands every readable file to the configured parser. When that
// parser cannot run, the built-in parser takes over for the whole batch.
func (s *Service) parseAll(ctx context.Context, pending []pendingFile) (map[string]pysource.FileResult, error) {
	sources := make([]pysource.Source, 0, len(pending))
	for _, file := range pending {
		if file.readErr == nil {
			sources = append(sources, pysource.Source{Path: file.path, Data: file.data})
		}
	}
	if len(sources) == 0 {
		return map[string]pysource.FileResult{}, nil
	}

	parsed, err := s.parser.ParseAll(ctx, sources)
	if err == nil {
		return parsed, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	log.Warn("python parser unavailable, falling back to built-in parser", "error", err)
	return pysource.BuiltinParser{}.ParseAll(ctx, sources)
}

// walkDirectory visits dir recursively. Unreadable directories are skipped.
func (s *Service) walkDirectory(ctx context.Context, root, dir string, pending *[]pendingFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.fs.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if s.shouldExclude(root, name, path) {
			log.Debug("excluded", "path", path)
			continue
		}

		if entry.IsDir() {
			if err := s.walkDirectory(ctx, root, path, pending); err != nil {
				return err
			}
			continue
		}

		if s.isSource(name) {
			if err := s.readFile(ctx, path, pending); err != nil {
				return err
			}
		}
	}
	return nil
}

// readFile queues one source file. A read error is kept for reporting.
func (s *Service) readFile(ctx context.Context, path string, pending *[]pendingFile) error {
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	*pending = append(*pending, pendingFile{path: path, data: data, readErr: err})
	return nil
}

func (s *Service) isSource(name string) bool {
	return slices.Contains(s.extensions, filepath.Ext(name))
}

// shouldExclude matches the configured patterns against the entry name and
// its slash-separated path relative to root.
func (s *Service) shouldExclude(root, name, path string) bool {
	if len(s.excludes) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.excludes {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
