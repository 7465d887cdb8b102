package stdlib

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

type fakeRun struct {
	python string
	args   []string
	dir    string
}

// fakeExecCommand re-executes the test binary as the interpreter. The helper
// prints stdout, writes stderr and exits with code.
func fakeExecCommand(t *testing.T, stdout, stderr string, code int, seen *fakeRun) func(context.Context, string, ...string) *exec.Cmd {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if seen != nil {
			seen.python = name
			seen.args = args
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

// Simulated interpreter that prints predefined output.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_TEST_HELPER_PROCESS") != "1" {
		return
	}
	_, _ = os.Stdout.WriteString(os.Getenv("MOCK_STDOUT"))
	_, _ = os.Stderr.WriteString(os.Getenv("MOCK_STDERR"))
	code, _ := strconv.Atoi(os.Getenv("MOCK_EXIT"))
	os.Exit(code)
}

func newFakeResolver(t *testing.T, stdout, stderr string, code int, seen *fakeRun) *PythonResolver {
	t.Helper()
	r := NewPythonResolver("python3", t.TempDir())
	r.execCommand = fakeExecCommand(t, stdout, stderr, code, seen)
	return r
}

/* ------------------------------------------------------------------------- */
/* RESOLVER                                                                  */
/* ------------------------------------------------------------------------- */

func TestPythonResolver_Resolve(t *testing.T) {
	stdout := strings.Join([]string{
		`@@reqscan {"name": "os", "status": "ok", "file": "/usr/lib/python3.12/os.py"}`,
		`banner printed by an imported module`,
		`@@reqscan {"name": "requests", "status": "ok", "file": "/venv/lib/python3.12/site-packages/requests/__init__.py"}`,
		`@@reqscan {"name": "sys", "status": "ok", "file": ""}`,
		`@@reqscan {"name": "nope", "status": "not-found", "error": "ModuleNotFoundError: No module named 'nope'"}`,
		`@@reqscan not json`,
	}, "\n") + "\n"

	var seen fakeRun
	r := newFakeResolver(t, stdout, "", 0, &seen)

	results, err := r.Resolve(context.Background(), []string{"nope", "os", "requests", "sys"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen.python != "python3" {
		t.Errorf("python = %q, want python3", seen.python)
	}
	if len(seen.args) != 6 || seen.args[0] != "-c" || seen.args[1] != probeScript {
		t.Errorf("unexpected args: %q", seen.args)
	}

	want := map[string]ProbeResult{
		"os":       {Status: ProbeOK, File: "/usr/lib/python3.12/os.py"},
		"requests": {Status: ProbeOK, File: "/venv/lib/python3.12/site-packages/requests/__init__.py"},
		"sys":      {Status: ProbeOK},
		"nope":     {Status: ProbeNotFound, Error: "ModuleNotFoundError: No module named 'nope'"},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("Resolve() = %+v\nwant %+v", results, want)
	}
}

func TestPythonResolver_Resolve_NoNames(t *testing.T) {
	r := NewPythonResolver("python3", t.TempDir())
	r.execCommand = func(context.Context, string, ...string) *exec.Cmd {
		t.Fatal("interpreter must not run for an empty batch")
		return nil
	}
	results, err := r.Resolve(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("Resolve(nil) = %v, %v", results, err)
	}
}

func TestPythonResolver_Resolve_Failure(t *testing.T) {
	r := newFakeResolver(t, "", "Traceback (most recent call last):\nSyntaxError: invalid syntax\n", 1, nil)

	_, err := r.Resolve(context.Background(), []string{"os"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SyntaxError: invalid syntax") {
		t.Errorf("error should carry the last stderr line, got %v", err)
	}
}

func TestPythonResolver_Resolve_PartialOutputKept(t *testing.T) {
	stdout := `@@reqscan {"name": "os", "status": "ok", "file": "/usr/lib/python3.12/os.py"}` + "\n"
	r := newFakeResolver(t, stdout, "Fatal Python error: Segmentation fault\n", 1, nil)

	results, err := r.Resolve(context.Background(), []string{"os", "crashy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := results["os"]; !ok {
		t.Error("results reported before the crash should be kept")
	}
	if _, ok := results["crashy"]; ok {
		t.Error("crashy should be missing")
	}
}

func TestPythonResolver_Resolve_MissingInterpreter(t *testing.T) {
	r := NewPythonResolver("definitely-not-a-python-interpreter", t.TempDir())
	if _, err := r.Resolve(context.Background(), []string{"os"}); err == nil {
		t.Fatal("expected error for missing interpreter")
	}
}

/* ------------------------------------------------------------------------- */
/* CLASSIFIER                                                                */
/* ------------------------------------------------------------------------- */

type mockResolver struct {
	results map[string]ProbeResult
	err     error
	calls   [][]string
}

func (m *mockResolver) Resolve(_ context.Context, names []string) (map[string]ProbeResult, error) {
	m.calls = append(m.calls, names)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func TestClassifier_Classify(t *testing.T) {
	resolver := &mockResolver{results: map[string]ProbeResult{
		"os":       {Status: ProbeOK, File: "/usr/lib/python3.12/os.py"},
		"requests": {Status: ProbeOK, File: "/venv/lib/python3.12/site-packages/requests/__init__.py"},
		"apt":      {Status: ProbeOK, File: "/usr/lib/python3/dist-packages/apt/__init__.py"},
		"sys":      {Status: ProbeOK},
		"helpers":  {Status: ProbeOK, File: "/project/helpers.py"},
		"ghost":    {Status: ProbeNotFound, Error: "No module named 'ghost'"},
		"broken":   {Status: ProbeError, Error: "ImportError: cannot import name 'x'"},
	}}

	c := NewClassifier(resolver, nil, "/project")
	got := c.Classify(context.Background(), []string{"requests", "os", "sys", "helpers", "ghost", "broken", "apt", "unreported", "os"})

	if len(resolver.calls) != 1 {
		t.Fatalf("resolver called %d times, want 1", len(resolver.calls))
	}
	if got.ProbeErr != nil {
		t.Errorf("ProbeErr = %v", got.ProbeErr)
	}

	wantKinds := map[string]OriginKind{
		"apt":        OriginStdlib,
		"broken":     OriginError,
		"ghost":      OriginNotFound,
		"helpers":    OriginLocal,
		"os":         OriginStdlib,
		"requests":   OriginThirdParty,
		"sys":        OriginBuiltin,
		"unreported": OriginError,
	}
	if len(got.Origins) != len(wantKinds) {
		t.Fatalf("len(Origins) = %d, want %d", len(got.Origins), len(wantKinds))
	}
	for name, kind := range wantKinds {
		origin, ok := got.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) missing", name)
			continue
		}
		if origin.Kind != kind {
			t.Errorf("%s: Kind = %q, want %q", name, origin.Kind, kind)
		}
	}

	if ext := got.External(); !reflect.DeepEqual(ext, []string{"requests"}) {
		t.Errorf("External() = %v, want [requests]", ext)
	}
}

func TestClassifier_CustomMarkers(t *testing.T) {
	resolver := &mockResolver{results: map[string]ProbeResult{
		"apt":  {Status: ProbeOK, File: "/usr/lib/python3/dist-packages/apt/__init__.py"},
		"yaml": {Status: ProbeOK, File: "/venv/lib/site-packages/yaml/__init__.py"},
	}}
	c := NewClassifier(resolver, []string{"site-packages", "dist-packages"}, "")

	got := c.Classify(context.Background(), []string{"apt", "yaml"})
	if ext := got.External(); !reflect.DeepEqual(ext, []string{"apt", "yaml"}) {
		t.Errorf("External() = %v, want [apt yaml]", ext)
	}
}

func TestClassifier_VirtualenvInsideProjectIsThirdParty(t *testing.T) {
	resolver := &mockResolver{results: map[string]ProbeResult{
		"flask": {Status: ProbeOK, File: "/project/.venv/lib/python3.12/site-packages/flask/__init__.py"},
	}}
	c := NewClassifier(resolver, nil, "/project")
	if !c.IsExternal(context.Background(), "flask") {
		t.Error("a package under site-packages is external even inside the project")
	}
}

func TestClassifier_ProbeFailureIsConservative(t *testing.T) {
	resolver := &mockResolver{err: errors.New("python3: not found")}
	c := NewClassifier(resolver, nil, "")

	got := c.Classify(context.Background(), []string{"requests", "numpy"})
	if got.ProbeErr == nil {
		t.Fatal("expected ProbeErr")
	}
	if ext := got.External(); len(ext) != 0 {
		t.Errorf("External() = %v, want none", ext)
	}
	for _, o := range got.Origins {
		if o.Kind != OriginError || o.Detail != "python3: not found" {
			t.Errorf("unexpected origin %+v", o)
		}
	}
}

func TestClassifier_Empty(t *testing.T) {
	resolver := &mockResolver{}
	got := NewClassifier(resolver, nil, "").Classify(context.Background(), nil)
	if len(got.Origins) != 0 || len(resolver.calls) != 0 {
		t.Errorf("empty input should not probe, got %+v", got)
	}
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		root, path string
		want       bool
	}{
		{"/project", "/project/mod.py", true},
		{"/project", "/project/pkg/__init__.py", true},
		{"/project", "/projectx/mod.py", false},
		{"/project", "/usr/lib/python3/os.py", false},
		{"/project", "relative.py", false},
	}
	for _, tt := range tests {
		if got := isWithin(tt.root, tt.path); got != tt.want {
			t.Errorf("isWithin(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
		}
	}
}
