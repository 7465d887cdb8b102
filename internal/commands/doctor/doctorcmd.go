// Package doctor implements the "doctor" command.
package doctor

import (
	"context"
	"fmt"

	"github.com/indaco/reqscan/internal/clix"
	"github.com/indaco/reqscan/internal/config"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/pip"
	"github.com/indaco/reqscan/internal/printer"
	"github.com/indaco/reqscan/internal/stdlib"
	"github.com/urfave/cli/v3"
)

// Toolchain is what doctor checks beyond the configuration itself.
type Toolchain interface {
	PipVersion(ctx context.Context) (string, error)
	Probe(ctx context.Context) (stdlib.ProbeResult, error)
}

type pythonToolchain struct {
	pip      *pip.Client
	resolver *stdlib.PythonResolver
}

func (p pythonToolchain) PipVersion(ctx context.Context) (string, error) {
	return p.pip.Version(ctx)
}

// Probe imports a module every interpreter ships with.
func (p pythonToolchain) Probe(ctx context.Context) (stdlib.ProbeResult, error) {
	results, err := p.resolver.Resolve(ctx, []string{"os"})
	if err != nil {
		return stdlib.ProbeResult{}, err
	}
	res, ok := results["os"]
	if !ok {
		return stdlib.ProbeResult{}, fmt.Errorf("interpreter reported no result")
	}
	return res, nil
}

// toolchainFactory is replaced in tests.
var toolchainFactory = func(python, root string) Toolchain {
	return pythonToolchain{
		pip:      pip.NewClient(python, root),
		resolver: stdlib.NewPythonResolver(python, root),
	}
}

// Run returns the "doctor" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Aliases:   []string{"check"},
		Usage:     "Validate configuration and the Python toolchain",
		UsageText: "reqscan doctor [--root <dir>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project directory to check",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Interpreter to check",
			},
		},
		Action: runDoctorCmd,
	}
}

func runDoctorCmd(ctx context.Context, cmd *cli.Command) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd)
	if err != nil {
		return err
	}
	cfg := execCtx.Config

	results, err := config.NewValidator(core.NewOSFileSystem(), cfg, execCtx.Root).Validate(ctx)
	if err != nil {
		return err
	}
	results = append(results, checkToolchain(ctx, toolchainFactory(cfg.Python, execCtx.Root))...)

	printResults(results)

	if n := config.ErrorCount(results); n > 0 {
		return fmt.Errorf("%d check(s) failed", n)
	}
	return nil
}

func checkToolchain(ctx context.Context, tc Toolchain) []config.ValidationResult {
	var results []config.ValidationResult

	res, err := tc.Probe(ctx)
	switch {
	case err != nil:
		results = append(results, config.ValidationResult{
			Category: "Module Probe",
			Message:  fmt.Sprintf("Interpreter could not be probed, every import would count as standard library: %v", err),
		})
	case res.Status != stdlib.ProbeOK:
		results = append(results, config.ValidationResult{
			Category: "Module Probe",
			Message:  fmt.Sprintf("Probe ran but could not import os: %s", res.Error),
		})
	default:
		results = append(results, config.ValidationResult{
			Category: "Module Probe",
			Passed:   true,
			Message:  fmt.Sprintf("Standard library found at %s", res.File),
		})
	}

	version, err := tc.PipVersion(ctx)
	if err != nil {
		msg := fmt.Sprintf("pip is unavailable, requirements cannot be pinned: %v", err)
		if suggestions := pip.Suggestions(err); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (%s)", suggestions[0])
		}
		results = append(results, config.ValidationResult{Category: "pip", Message: msg})
	} else {
		results = append(results, config.ValidationResult{Category: "pip", Passed: true, Message: version})
	}
	return results
}

func printResults(results []config.ValidationResult) {
	printer.PrintInfo("reqscan doctor")
	fmt.Println()
	for _, r := range results {
		var mark string
		switch {
		case r.Passed:
			mark = printer.Success(printer.MarkOK)
		case r.Warning:
			mark = printer.Warning(printer.MarkWarning)
		default:
			mark = printer.Error(printer.MarkFailed)
		}
		fmt.Printf("%s %s: %s\n", mark, printer.Bold(r.Category), r.Message)
	}
	fmt.Println()
	fmt.Printf("%d error(s), %d warning(s)\n", config.ErrorCount(results), config.WarningCount(results))
}
