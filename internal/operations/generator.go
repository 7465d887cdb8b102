package operations

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/indaco/reqscan/internal/collector"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/log"
	"github.com/indaco/reqscan/internal/manifest"
	"github.com/indaco/reqscan/internal/pip"
	"github.com/indaco/reqscan/internal/printer"
	"github.com/indaco/reqscan/internal/stdlib"
)

// Collector gathers top-level import names from a project tree.
type Collector interface {
	Collect(ctx context.Context, root string) (*collector.Result, error)
}

// Classifier decides which import names are third-party.
type Classifier interface {
	Classify(ctx context.Context, names []string) *stdlib.Classification
}

// Freezer lists the installed distributions.
type Freezer interface {
	Freeze(ctx context.Context) (*pip.Index, error)
}

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

// RunnerFunc runs a slow step, possibly behind a spinner.
type RunnerFunc func(ctx context.Context, title string, fn func() error) error

// Options controls a single run.
type Options struct {
	// OutputPath is where the manifest is written.
	OutputPath string

	// DryRun prints the manifest instead of writing it.
	DryRun bool

	// Confirm asks before overwriting an existing manifest.
	Confirm bool

	// Hints prints fuzzy suggestions for externals missing from the freeze listing.
	Hints bool
}

// Report describes what a run found and did.
type Report struct {
	Root           string
	Scan           *collector.Result
	Classification *stdlib.Classification
	External       []string
	Entries        []manifest.Entry
	Hints          map[string][]string
	FreezeErr      error
	OutputPath     string
	Written        bool
	Declined       bool
}

// Generator produces the requirements manifest for a project.
type Generator struct {
	fs         core.FileSystem
	collector  Collector
	classifier Classifier
	freezer    Freezer
	confirm    ConfirmFunc
	runner     RunnerFunc
}

// NewGenerator creates a Generator. Slow steps run in the foreground and
// confirmation is unavailable until WithConfirm and WithRunner are used.
func NewGenerator(fs core.FileSystem, c Collector, cl Classifier, f Freezer) *Generator {
	return &Generator{
		fs:         fs,
		collector:  c,
		classifier: cl,
		freezer:    f,
		runner: func(_ context.Context, _ string, fn func() error) error {
			return fn()
		},
	}
}

// WithConfirm sets the prompt used when Options.Confirm is true.
func (g *Generator) WithConfirm(fn ConfirmFunc) *Generator {
	g.confirm = fn
	return g
}

// WithRunner sets the wrapper used for the probe and freeze steps.
func (g *Generator) WithRunner(fn RunnerFunc) *Generator {
	if fn != nil {
		g.runner = fn
	}
	return g
}

// Run executes the pipeline against root.
//
// Unparseable files and a failed freeze listing are reported on the console
// and do not make Run fail; the freeze fallback prints the external modules
// and leaves the manifest untouched. Errors are returned only for an invalid
// root, a canceled context, a failed prompt or a failed write.
func (g *Generator) Run(ctx context.Context, root string, opts Options) (*Report, error) {
	report := &Report{Root: root, OutputPath: opts.OutputPath}

	scan, err := g.collector.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	report.Scan = scan
	printFailures(scan.Failures)

	if err := g.runner(ctx, "Classifying imports...", func() error {
		report.Classification = g.classifier.Classify(ctx, scan.Sorted())
		return nil
	}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.External = report.Classification.External()

	var idx *pip.Index
	err = g.runner(ctx, "Reading installed packages...", func() error {
		var freezeErr error
		idx, freezeErr = g.freezer.Freeze(ctx)
		return freezeErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		report.FreezeErr = err
		printFreezeFallback(err, report.External)
		return report, nil
	}

	report.Entries = manifest.Build(report.External, idx)
	if opts.Hints {
		report.Hints = unresolvedHints(report.Entries, idx)
		printHints(report.Hints, report.Entries)
	}

	if opts.DryRun {
		fmt.Println(manifest.Render(report.Entries))
		return report, nil
	}

	if opts.Confirm && g.confirm != nil && g.exists(ctx, opts.OutputPath) {
		ok, err := g.confirm(fmt.Sprintf("Overwrite %s?", filepath.Base(opts.OutputPath)), opts.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			report.Declined = true
			printer.PrintWarning("Skipped writing " + opts.OutputPath)
			return report, nil
		}
	}

	if err := manifest.Write(ctx, g.fs, opts.OutputPath, report.Entries); err != nil {
		return nil, err
	}
	report.Written = true
	log.Debug("manifest written", "path", opts.OutputPath, "entries", len(report.Entries))

	printer.PrintSuccess(fmt.Sprintf("%s %s generated successfully.", printer.MarkOK, filepath.Base(opts.OutputPath)))
	return report, nil
}

func (g *Generator) exists(ctx context.Context, path string) bool {
	_, err := g.fs.Stat(ctx, path)
	return err == nil
}

func printFailures(failures []collector.Failure) {
	for _, f := range failures {
		switch f.Kind {
		case collector.ReadFailed:
			printer.PrintWarning(fmt.Sprintf("Failed to read %s: %v", f.Path, f.Err))
		default:
			printer.PrintWarning(fmt.Sprintf("Failed to parse %s: %v", f.Path, f.Err))
		}
	}
}

func printFreezeFallback(err error, external []string) {
	printer.PrintError(fmt.Sprintf("%s Error using pip freeze: %v", printer.MarkWarning, err))
	if suggestions := pip.Suggestions(err); len(suggestions) > 0 {
		printer.PrintBullets(suggestions)
	}
	fmt.Printf("Modules found: %v\n", external)

	var cmdErr *pip.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Output != "" {
		log.Debug("pip output", "output", cmdErr.Output)
	}
}

func unresolvedHints(entries []manifest.Entry, idx *pip.Index) map[string][]string {
	hints := make(map[string][]string)
	installed := idx.Names()
	for _, mod := range manifest.Unpinned(entries) {
		if suggestions := Suggest(mod, installed, MaxHints); len(suggestions) > 0 {
			hints[mod] = suggestions
		}
	}
	return hints
}

func printHints(hints map[string][]string, entries []manifest.Entry) {
	for _, mod := range manifest.Unpinned(entries) {
		suggestions, ok := hints[mod]
		if !ok {
			printer.PrintFaint(fmt.Sprintf("No installed distribution matches %q, writing it unpinned", mod))
			continue
		}
		printer.PrintFaint(fmt.Sprintf("No installed distribution named %q, did you mean: %v?", mod, suggestions))
	}
}
