package pip

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/indaco/reqscan/internal/log"
)

// Client runs pip through a specific interpreter.
type Client struct {
	python      string
	dir         string
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewClient creates a Client running "<python> -m pip" from dir.
func NewClient(python, dir string) *Client {
	return &Client{
		python:      python,
		dir:         dir,
		execCommand: exec.CommandContext,
	}
}

// Python returns the interpreter the client runs.
func (c *Client) Python() string {
	return c.python
}

// Freeze lists the installed distributions.
func (c *Client) Freeze(ctx context.Context) (*Index, error) {
	out, err := c.run(ctx, "freeze")
	if err != nil {
		return nil, err
	}
	idx := ParseFreeze(out)
	log.Debug("pip freeze finished", "python", c.python, "packages", idx.Len())
	return idx, nil
}

// Version returns the first line of "pip --version".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-m", "pip"}, args...)
	cmd := c.execCommand(ctx, c.python, full...)
	cmd.Dir = c.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running pip", "python", c.python, "args", full)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		command := fmt.Sprintf("%s %s", c.python, strings.Join(full, " "))
		return "", FormatPipError(err, command, stderr.String())
	}
	return stdout.String(), nil
}
