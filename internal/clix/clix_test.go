package clix

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/indaco/reqscan/internal/cli/flags"
	"github.com/indaco/reqscan/internal/config"
	"github.com/urfave/cli/v3"
)

func runWith(t *testing.T, args []string) *ExecutionContext {
	t.Helper()
	var got *ExecutionContext
	app := &cli.Command{
		Name: "reqscan",
		Flags: append(flags.ProjectFlags(false),
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			got, err = GetExecutionContext(ctx, cmd)
			return err
		},
	}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return got
}

func TestGetExecutionContext_Defaults(t *testing.T) {
	t.Setenv(config.PythonEnvVar, "")
	dir := t.TempDir()
	t.Chdir(dir)

	got := runWith(t, []string{"reqscan"})

	wd, _ := os.Getwd()
	if got.Root != wd {
		t.Errorf("Root = %q, want %q", got.Root, wd)
	}
	if got.Config.Output != "requirements.txt" {
		t.Errorf("Output = %q", got.Config.Output)
	}
}

func TestGetExecutionContext_Overrides(t *testing.T) {
	t.Setenv(config.PythonEnvVar, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("exclude:\n  - .venv\npython: python3.10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := runWith(t, []string{"reqscan", "--root", dir, "--python", "/opt/python", "-e", "build", "-o", "deps.txt"})

	if got.Root != dir {
		t.Errorf("Root = %q, want %q", got.Root, dir)
	}
	if got.Config.Python != "/opt/python" {
		t.Errorf("Python = %q", got.Config.Python)
	}
	if !reflect.DeepEqual(got.Config.Exclude, []string{".venv", "build"}) {
		t.Errorf("Exclude = %v", got.Config.Exclude)
	}
	if got.Config.OutputPath(got.Root) != filepath.Join(dir, "deps.txt") {
		t.Errorf("OutputPath = %q", got.Config.OutputPath(got.Root))
	}
}

func TestGetExecutionContext_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("unknown: field\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := &cli.Command{
		Name:  "reqscan",
		Flags: append(flags.ProjectFlags(false), &cli.StringFlag{Name: "config"}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := GetExecutionContext(ctx, cmd)
			return err
		},
	}
	if err := app.Run(context.Background(), []string{"reqscan", "--root", dir}); err == nil {
		t.Fatal("expected config error")
	}
}
