package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/indaco/reqscan/internal/commands/doctor"
	"github.com/indaco/reqscan/internal/commands/generate"
	"github.com/indaco/reqscan/internal/commands/initialize"
	"github.com/indaco/reqscan/internal/commands/scan"
	"github.com/indaco/reqscan/internal/log"
	"github.com/indaco/reqscan/internal/printer"
	"github.com/indaco/reqscan/internal/tui"
	"github.com/indaco/reqscan/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// New builds and returns the root CLI command. Invoked without a subcommand
// it runs generate against the current directory.
func New() *urfavecli.Command {
	globalFlags := []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config",
			Usage: "Path to a configuration file",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&urfavecli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug details to stderr",
		},
		&urfavecli.StringFlag{
			Name:  "theme",
			Usage: fmt.Sprintf("Prompt theme (%s)", strings.Join(tui.ValidThemes, ", ")),
		},
	}

	return &urfavecli.Command{
		Name:                  "reqscan",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Generate requirements.txt from the imports of a Python project",
		EnableShellCompletion: true,
		Flags:                 append(globalFlags, generate.Flags(true)...),
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(cmd.Bool("no-color"))
			log.SetVerbose(cmd.Bool("verbose"))
			tui.SetTheme(cmd.String("theme"))
			return ctx, nil
		},
		Action: generate.Action,
		Commands: []*urfavecli.Command{
			generate.Run(),
			scan.Run(),
			doctor.Run(),
			initialize.Run(),
		},
	}
}

