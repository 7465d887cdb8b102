package pip

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

/* ------------------------------------------------------------------------- */
/* HELPER PROCESS                                                            */
/* ------------------------------------------------------------------------- */

func fakeExecCommand(stdout, stderr string, code int, gotArgs *[]string) func(context.Context, string, ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if gotArgs != nil {
			*gotArgs = append([]string{name}, args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess", "--") //nolint:gosec // standard test re-exec pattern
		cmd.Env = append(os.Environ(),
			"GO_TEST_HELPER_PROCESS=1",
			"MOCK_STDOUT="+stdout,
			"MOCK_STDERR="+stderr,
			"MOCK_EXIT="+strconv.Itoa(code),
		)
		return cmd
	}
}

// Simulated pip that prints predefined output.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_TEST_HELPER_PROCESS") != "1" {
		return
	}
	_, _ = os.Stdout.WriteString(os.Getenv("MOCK_STDOUT"))
	_, _ = os.Stderr.WriteString(os.Getenv("MOCK_STDERR"))
	code, _ := strconv.Atoi(os.Getenv("MOCK_EXIT"))
	os.Exit(code)
}

/* ------------------------------------------------------------------------- */
/* INDEX                                                                     */
/* ------------------------------------------------------------------------- */

func TestParseFreeze(t *testing.T) {
	output := strings.Join([]string{
		"PyYAML==6.0.1",
		"requests==2.31.0",
		"-e git+https://example.com/repo.git@abc#egg=local",
		"mypkg @ file:///tmp/mypkg",
		"Django==4.2.7\r",
		"",
		"requests==2.32.0",
	}, "\n")

	idx := ParseFreeze(output)

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}

	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{"yaml", "", false},
		{"pyyaml", "PyYAML==6.0.1", true},
		{"PYYAML", "PyYAML==6.0.1", true},
		{"django", "Django==4.2.7", true},
		{"requests", "requests==2.32.0", true},
		{"mypkg", "", false},
		{"local", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.Lookup(tt.name)
			if ok != tt.found || got != tt.want {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.found)
			}
		})
	}

	if names := idx.Names(); !reflect.DeepEqual(names, []string{"Django", "PyYAML", "requests"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestParseFreeze_KeyIsTextBeforeFirstSeparator(t *testing.T) {
	idx := ParseFreeze("odd==1.0==extra\n")
	line, ok := idx.Lookup("odd")
	if !ok || line != "odd==1.0==extra" {
		t.Errorf("Lookup(odd) = %q, %v", line, ok)
	}
}

func TestIndex_Nil(t *testing.T) {
	var idx *Index
	if _, ok := idx.Lookup("x"); ok {
		t.Error("nil index should not find anything")
	}
	if idx.Len() != 0 || idx.Names() != nil {
		t.Error("nil index should be empty")
	}
}

/* ------------------------------------------------------------------------- */
/* CLIENT                                                                    */
/* ------------------------------------------------------------------------- */

func TestClient_Freeze(t *testing.T) {
	var args []string
	c := NewClient("/venv/bin/python", t.TempDir())
	c.execCommand = fakeExecCommand("numpy==1.26.0\nrequests==2.31.0\n", "", 0, &args)

	idx, err := c.Freeze(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"/venv/bin/python", "-m", "pip", "freeze"}; !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
	if line, ok := idx.Lookup("NumPy"); !ok || line != "numpy==1.26.0" {
		t.Errorf("Lookup(NumPy) = %q, %v", line, ok)
	}
}

func TestClient_Freeze_PipMissing(t *testing.T) {
	c := NewClient("python3", t.TempDir())
	c.execCommand = fakeExecCommand("", "/usr/bin/python3: No module named pip\n", 1, nil)

	_, err := c.Freeze(context.Background())
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T: %v", err, err)
	}
	if cmdErr.Info == nil || cmdErr.Info.Category != "pip_missing" {
		t.Errorf("Info = %+v, want pip_missing", cmdErr.Info)
	}
	if len(Suggestions(err)) == 0 {
		t.Error("expected suggestions")
	}
	if !strings.Contains(err.Error(), "pip is not installed") {
		t.Errorf("Error() = %q", err.Error())
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Error("original exit error should be unwrappable")
	}
}

func TestClient_Freeze_UnknownFailure(t *testing.T) {
	c := NewClient("python3", t.TempDir())
	c.execCommand = fakeExecCommand("", "Traceback (most recent call last):\nRuntimeError: boom\n", 2, nil)

	_, err := c.Freeze(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "RuntimeError: boom") {
		t.Errorf("Error() = %q, want last stderr line first", err.Error())
	}
	if Suggestions(err) != nil {
		t.Error("unknown failures carry no suggestions")
	}
}

func TestClient_Freeze_InterpreterNotFound(t *testing.T) {
	c := NewClient("definitely-not-a-python-interpreter", t.TempDir())

	_, err := c.Freeze(context.Background())
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T: %v", err, err)
	}
	if cmdErr.Info == nil || cmdErr.Info.Category != "interpreter_not_found" {
		t.Errorf("Info = %+v, want interpreter_not_found", cmdErr.Info)
	}
}

func TestClient_Version(t *testing.T) {
	var args []string
	c := NewClient("python3", t.TempDir())
	c.execCommand = fakeExecCommand("pip 24.0 from /usr/lib/python3/site-packages/pip (python 3.12)\n", "", 0, &args)

	got, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "pip 24.0") {
		t.Errorf("Version() = %q", got)
	}
	if args[len(args)-1] != "--version" {
		t.Errorf("args = %v", args)
	}
	if c.Python() != "python3" {
		t.Errorf("Python() = %q", c.Python())
	}
}

func TestFormatPipError(t *testing.T) {
	if FormatPipError(nil, "x", "") != nil {
		t.Error("nil error should stay nil")
	}

	tests := []struct {
		name     string
		output   string
		category string
	}{
		{"permission", "ERROR: [Errno 13] Permission denied: '/usr/lib/site-packages'", "permission_denied"},
		{"bad interpreter", "/venv/bin/python: bad interpreter: No such file or directory", "broken_interpreter"},
		{"unmatched", "something else", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FormatPipError(errors.New("exit status 1"), "python -m pip freeze", tt.output)
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) {
				t.Fatalf("expected *CommandError, got %T", err)
			}
			got := ""
			if cmdErr.Info != nil {
				got = cmdErr.Info.Category
			}
			if got != tt.category {
				t.Errorf("category = %q, want %q", got, tt.category)
			}
		})
	}

	err := FormatPipError(errors.New("exit status 1"), "python -m pip freeze", "")
	if !strings.Contains(err.Error(), `"python -m pip freeze"`) {
		t.Errorf("Error() = %q, want command name", err.Error())
	}
}
