package stdlib

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/indaco/reqscan/internal/log"
	"github.com/tidwall/gjson"
)

// probePrefix marks the lines written by probeScript. Anything else on stdout
// comes from the modules being imported and is ignored.
const probePrefix = "@@reqscan "

// probeScript imports every name given on the command line and reports where
// each module was loaded from. Output written by the imported modules is
// swallowed so it cannot be mistaken for a report line.
const probeScript = `import importlib, io, json, sys
out = sys.stdout
for name in sys.argv[1:]:
    rec = {"name": name}
    sys.stdout = io.StringIO()
    try:
        mod = importlib.import_module(name)
        rec["status"] = "ok"
        rec["file"] = getattr(mod, "__file__", None) or ""
    except ModuleNotFoundError as exc:
        rec["status"] = "not-found" if exc.name == name else "error"
        rec["error"] = "%s: %s" % (type(exc).__name__, exc)
    except BaseException as exc:
        rec["status"] = "error"
        rec["error"] = "%s: %s" % (type(exc).__name__, exc)
    finally:
        sys.stdout = out
    out.write("@@reqscan " + json.dumps(rec) + "\n")
    out.flush()
`

// PythonResolver probes module origins by running the target interpreter once
// for the whole batch of names.
type PythonResolver struct {
	python      string
	dir         string
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewPythonResolver creates a resolver running python with dir as its working
// directory, so modules local to the project resolve the way they would at runtime.
func NewPythonResolver(python, dir string) *PythonResolver {
	return &PythonResolver{
		python:      python,
		dir:         dir,
		execCommand: exec.CommandContext,
	}
}

// Verify PythonResolver implements Resolver.
var _ Resolver = (*PythonResolver)(nil)

// Resolve runs the probe for names. Names missing from the returned map were
// not reported by the interpreter.
func (r *PythonResolver) Resolve(ctx context.Context, names []string) (map[string]ProbeResult, error) {
	results := make(map[string]ProbeResult, len(names))
	if len(names) == 0 {
		return results, nil
	}

	args := append([]string{"-c", probeScript}, names...)
	cmd := r.execCommand(ctx, r.python, args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	parseProbeOutput(stdout.Bytes(), results)

	if runErr != nil {
		stderrMsg := strings.TrimSpace(stderr.String())
		log.Debug("module probe exited with error", "python", r.python, "error", runErr, "stderr", stderrMsg)
		if len(results) == 0 {
			if stderrMsg != "" {
				return nil, fmt.Errorf("%s: %w", lastLine(stderrMsg), runErr)
			}
			return nil, fmt.Errorf("module probe failed: %w", runErr)
		}
	}
	return results, nil
}

// parseProbeOutput decodes every prefixed report line into results.
func parseProbeOutput(out []byte, results map[string]ProbeResult) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line, ok := strings.CutPrefix(scanner.Text(), probePrefix)
		if !ok || !gjson.Valid(line) {
			continue
		}
		record := gjson.Parse(line)
		name := record.Get("name").String()
		if name == "" {
			continue
		}
		results[name] = ProbeResult{
			Status: ProbeStatus(record.Get("status").String()),
			File:   record.Get("file").String(),
			Error:  record.Get("error").String(),
		}
	}
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
