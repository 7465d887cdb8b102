// Package generate implements the "generate" command, the default action of reqscan.
package generate

import (
	"context"

	"github.com/indaco/reqscan/internal/cli/flags"
	"github.com/indaco/reqscan/internal/clix"
	"github.com/indaco/reqscan/internal/collector"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/operations"
	"github.com/indaco/reqscan/internal/pip"
	"github.com/indaco/reqscan/internal/pysource"
	"github.com/indaco/reqscan/internal/stdlib"
	"github.com/indaco/reqscan/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "generate" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Write requirements.txt from the project's third-party imports",
		UsageText: `reqscan generate [options]

Scans every Python file under the project root, keeps the imports that
resolve to installed third-party packages and writes them, pinned to the
versions reported by pip freeze, to requirements.txt.`,
		Flags:  Flags(false),
		Action: Action,
	}
}

// Flags returns the generate flags. local keeps them off subcommands when
// they are attached to the root command.
func Flags(local bool) []cli.Flag {
	return append(flags.ProjectFlags(local),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Manifest path, relative to the project root",
			DefaultText: "requirements.txt",
			Local:       local,
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the manifest instead of writing it",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "confirm",
			Usage: "Ask before overwriting an existing manifest",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "no-hints",
			Usage: "Do not suggest installed packages for unpinned modules",
			Local: local,
		},
	)
}

// Action runs the generator for the invocation described by cmd.
func Action(ctx context.Context, cmd *cli.Command) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd)
	if err != nil {
		return err
	}
	cfg := execCtx.Config
	root := execCtx.Root

	fs := core.NewOSFileSystem()
	generator := operations.NewGenerator(
		fs,
		collector.NewService(fs, cfg).WithParser(pysource.NewInterpreterParser(cfg.Python, root)),
		stdlib.NewClassifier(stdlib.NewPythonResolver(cfg.Python, root), cfg.ThirdPartyMarkers, root),
		pip.NewClient(cfg.Python, root),
	).WithConfirm(confirmOverwrite).WithRunner(tui.WithSpinner)

	_, err = generator.Run(ctx, root, operations.Options{
		OutputPath: cfg.OutputPath(root),
		DryRun:     cmd.Bool("dry-run"),
		Confirm:    cmd.Bool("confirm"),
		Hints:      cfg.HintsEnabled() && !cmd.Bool("no-hints"),
	})
	return err
}

// confirmOverwrite prompts only on a terminal. Elsewhere the write proceeds.
func confirmOverwrite(title, description string) (bool, error) {
	if !tui.IsInteractive() {
		return true, nil
	}
	return tui.Confirm(title, description)
}
