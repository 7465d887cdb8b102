package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/indaco/reqscan/internal/config"
	"github.com/indaco/reqscan/internal/testutils"
)

// fakePython is a shell script standing in for the interpreter. It answers
// the module probe from a fixed table and prints a canned freeze listing.
// Source parsing gets no report, so every file goes through the built-in parser.
const fakePython = `#!/bin/sh
if [ "$1" = "-c" ]; then
  shift 2
  for name in "$@"; do
    case "$name" in
      requests|yaml|numpy)
        echo "@@reqscan {\"name\": \"$name\", \"status\": \"ok\", \"file\": \"/venv/lib/python3.12/site-packages/$name/__init__.py\"}" ;;
      missing)
        echo "@@reqscan {\"name\": \"$name\", \"status\": \"not-found\", \"error\": \"No module named '$name'\"}" ;;
      *)
        echo "@@reqscan {\"name\": \"$name\", \"status\": \"ok\", \"file\": \"/usr/lib/python3.12/$name.py\"}" ;;
    esac
  done
  exit 0
fi
if [ "$1" = "-m" ] && [ "$2" = "pip" ] && [ "$3" = "freeze" ]; then
  if [ -n "$FAKE_PIP_BROKEN" ]; then
    echo "/usr/bin/python3: No module named pip" >&2
    exit 1
  fi
  printf 'PyYAML==6.0.1\nrequests==2.31.0\nnumpy==1.26.4\n'
  exit 0
fi
exit 2
`

func setupProject(t *testing.T) (dir, python string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter is a shell script")
	}
	t.Setenv(config.PythonEnvVar, "")

	dir = t.TempDir()
	testutils.WriteFile(t, dir, "app.py", "import os\nimport requests\nfrom yaml import safe_load\nimport missing\n")
	testutils.WriteFile(t, dir, "pkg/calc.py", "import numpy as np\nfrom . import helpers\n")
	testutils.WriteFile(t, dir, "pkg/broken.py", "def f(:\n    pass\n")

	python = filepath.Join(t.TempDir(), "python")
	if err := os.WriteFile(python, []byte(fakePython), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir, python
}

func TestRunCLI_DefaultActionWritesManifest(t *testing.T) {
	dir, python := setupProject(t)
	t.Chdir(dir)

	output, err := testutils.CaptureStdout(func() {
		if err := runCLI([]string{"reqscan", "--python", python, "--no-color"}); err != nil {
			t.Errorf("runCLI() error = %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to capture stdout: %v", err)
	}

	got := testutils.ReadFile(t, dir, "requirements.txt")
	if want := "numpy==1.26.4\nrequests==2.31.0\nyaml"; got != want {
		t.Errorf("requirements.txt = %q, want %q", got, want)
	}
	for _, want := range []string{
		"Failed to parse " + filepath.Join(dir, "pkg", "broken.py"),
		"PyYAML",
		"requirements.txt generated successfully.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunCLI_GenerateSubcommandWithFlags(t *testing.T) {
	dir, python := setupProject(t)
	t.Chdir(t.TempDir())

	_, err := testutils.CaptureStdout(func() {
		args := []string{"reqscan", "generate", "--root", dir, "--python", python, "-o", "deps.txt", "-e", "pkg"}
		if err := runCLI(args); err != nil {
			t.Errorf("runCLI() error = %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to capture stdout: %v", err)
	}

	if got := testutils.ReadFile(t, dir, "deps.txt"); got != "requests==2.31.0\nyaml" {
		t.Errorf("deps.txt = %q", got)
	}
}

func TestRunCLI_FreezeFailure(t *testing.T) {
	dir, python := setupProject(t)
	t.Setenv("FAKE_PIP_BROKEN", "1")
	t.Chdir(dir)

	output, err := testutils.CaptureStdout(func() {
		if err := runCLI([]string{"reqscan", "--python", python}); err != nil {
			t.Errorf("freeze failure must not fail the run: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to capture stdout: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "requirements.txt")); !os.IsNotExist(statErr) {
		t.Error("requirements.txt must not be written when freeze fails")
	}
	for _, want := range []string{"Error using pip freeze:", "Modules found: [numpy requests yaml]"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunCLI_InvalidConfig(t *testing.T) {
	dir, _ := setupProject(t)
	testutils.WriteTempConfig(t, dir, "outptu: typo.txt\n")
	t.Chdir(dir)

	err := runCLI([]string{"reqscan"})
	if err == nil || !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Fatalf("expected config error, got %v", err)
	}
}
