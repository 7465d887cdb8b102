// Package testutils holds helpers shared by command and operation tests.
package testutils

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

// CaptureStdout runs f and returns everything it wrote to os.Stdout.
func CaptureStdout(f func()) (string, error) {
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	var copyErr error
	go func() {
		_, copyErr = io.Copy(&buf, r)
		close(done)
	}()

	f()

	_ = w.Close()
	os.Stdout = old
	<-done
	_ = r.Close()

	return buf.String(), copyErr
}

// BuildCLIForTests wraps commands in a root command carrying the global flags.
func BuildCLIForTests(commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name: "reqscan",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.BoolFlag{Name: "no-color"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Commands: commands,
	}
}

// RunCLITest runs app with args from workdir and fails the test on error.
func RunCLITest(t *testing.T, app *cli.Command, args []string, workdir string) {
	t.Helper()
	if err := RunCLITestAllowError(t, app, args, workdir); err != nil {
		t.Fatalf("CLI run failed: %v", err)
	}
}

// RunCLITestAllowError runs app with args from workdir and returns its error.
func RunCLITestAllowError(t *testing.T, app *cli.Command, args []string, workdir string) error {
	t.Helper()
	t.Chdir(workdir)
	return app.Run(context.Background(), args)
}

// WriteTempConfig writes content as .reqscan.yaml in dir and returns its path.
func WriteTempConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, ".reqscan.yaml", content)
}

// WriteFile writes content at dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of dir/rel, failing the test if it cannot be read.
func ReadFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}
