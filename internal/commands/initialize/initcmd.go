// Package initialize implements the "init" command.
package initialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/reqscan/internal/config"
	"github.com/indaco/reqscan/internal/core"
	"github.com/indaco/reqscan/internal/printer"
	"github.com/urfave/cli/v3"
)

// excludeCandidates are directories that usually hold code which is not part
// of the project's own sources.
var excludeCandidates = []string{
	".venv",
	"venv",
	"env",
	".tox",
	".nox",
	"build",
	"dist",
	"node_modules",
	"site-packages",
}

// Run returns the "init" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a .reqscan.yaml for the project",
		UsageText: "reqscan init [--root <dir>] [--force]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project directory",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(ctx context.Context, cmd *cli.Command) error {
	root := cmd.String("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}

	fs := core.NewOSFileSystem()
	path := filepath.Join(root, config.FileName)

	if _, err := fs.Stat(ctx, path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	cfg := &config.Config{
		Output:  core.DefaultManifestName,
		Exclude: DetectExcludes(ctx, fs, root),
	}

	if err := config.NewSaver(commentedMarshaler{}, nil, nil).SaveTo(cfg, path); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("%s Created %s", printer.MarkOK, path))
	if len(cfg.Exclude) > 0 {
		printer.PrintFaint("Excluded directories found in the project:")
		printer.PrintBullets(cfg.Exclude)
	}
	return nil
}

// DetectExcludes returns the candidate directories present directly under root.
func DetectExcludes(ctx context.Context, fs core.FileSystem, root string) []string {
	var found []string
	for _, name := range excludeCandidates {
		info, err := fs.Stat(ctx, filepath.Join(root, name))
		if err == nil && info.IsDir() {
			found = append(found, name)
		}
	}
	return found
}

// commentedMarshaler prefixes the YAML document with a short reference of
// the available settings.
type commentedMarshaler struct{}

const header = `# reqscan configuration file
#
# output:               manifest path, relative to the project root
# python:               interpreter used to classify imports and run pip
# extensions:           source file extensions to scan (default: [.py])
# exclude:              glob patterns of files or directories to skip
# third-party-markers:  path fragments marking installed packages (default: [site-packages])
# hints:                suggest installed packages for unpinned modules (default: true)
`

func (commentedMarshaler) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.Write(data)
	return []byte(sb.String()), nil
}
