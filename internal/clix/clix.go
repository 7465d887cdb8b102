// Package clix resolves the per-invocation context shared by commands.
package clix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/reqscan/internal/config"
	"github.com/indaco/reqscan/internal/log"
	"github.com/indaco/reqscan/internal/tui"
	"github.com/urfave/cli/v3"
)

// ExecutionContext is the resolved project root and effective configuration.
type ExecutionContext struct {
	Root   string
	Config *config.Config
}

// GetExecutionContext resolves --root (default: working directory), loads the
// configuration for it and applies command-line overrides on top.
func GetExecutionContext(_ context.Context, cmd *cli.Command) (*ExecutionContext, error) {
	root := cmd.String("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	cfg, err := config.LoadConfigFn(root, cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if python := cmd.String("python"); python != "" {
		cfg.Python = python
	}
	if excludes := cmd.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludes...)
	}
	if output := cmd.String("output"); output != "" {
		cfg.Output = output
	}
	if cmd.String("theme") == "" && cfg.Theme != "" {
		tui.SetTheme(cfg.Theme)
	}

	log.Debug("execution context",
		"root", root,
		"config", cfg.Source,
		"python", cfg.Python,
		"output", cfg.OutputPath(root))

	return &ExecutionContext{Root: root, Config: cfg}, nil
}
