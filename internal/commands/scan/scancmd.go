// Package scan implements the "scan" command: a read-only report of the
// imports found in a project and how each one was classified.
package scan

import (
	"context"
	"fmt"

	"github.com/indaco/reqscan/internal/cli/flags"
	"github.com/indaco/reqscan/internal/clix"
	"github.com/indaco/reqscan/internal/collector"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/pysource"
	"github.com/indaco/reqscan/internal/stdlib"
	"github.com/indaco/reqscan/internal/tui"
	"github.com/urfave/cli/v3"
)

// classifierFactory builds the classifier for a run. Tests replace it to
// avoid starting an interpreter.
var classifierFactory = func(python, root string, markers []string) Classifier {
	return stdlib.NewClassifier(stdlib.NewPythonResolver(python, root), markers, root)
}

// parserFactory builds the source parser for a run.
var parserFactory = func(python, root string) pysource.BatchParser {
	return pysource.NewInterpreterParser(python, root)
}

// Classifier decides the origin of import names.
type Classifier interface {
	Classify(ctx context.Context, names []string) *stdlib.Classification
}

// Run returns the "scan" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List the project's imports and their classification",
		UsageText: `reqscan scan [options]

Collects imports and classifies them without running pip or writing files.`,
		Flags: append(flags.ProjectFlags(false),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, table",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "external",
				Usage: "Only list third-party imports",
			},
		),
		Action: runScanCmd,
	}
}

func runScanCmd(ctx context.Context, cmd *cli.Command) error {
	format, err := ParseOutputFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	execCtx, err := clix.GetExecutionContext(ctx, cmd)
	if err != nil {
		return err
	}
	cfg := execCtx.Config

	fs := core.NewOSFileSystem()
	parser := parserFactory(cfg.Python, execCtx.Root)
	result, err := collector.NewService(fs, cfg).WithParser(parser).Collect(ctx, execCtx.Root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	var classification *stdlib.Classification
	classifier := classifierFactory(cfg.Python, execCtx.Root, cfg.ThirdPartyMarkers)
	spin := tui.WithSpinner
	if format != FormatText {
		spin = func(_ context.Context, _ string, fn func() error) error { return fn() }
	}
	if err := spin(ctx, "Classifying imports...", func() error {
		classification = classifier.Classify(ctx, result.Sorted())
		return nil
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	report := NewReport(result, classification, cmd.Bool("external"))
	out, err := NewFormatter(format).Format(report)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
