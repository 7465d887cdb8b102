package pysource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/indaco/reqscan/internal/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// reportPrefix marks the lines written by parseScript.
const reportPrefix = "@@reqscan "

// parseScript reads one {"path", "source"} document per stdin line, parses
// the source with ast and reports every import statement, or the error that
// made the file unparsable. Warnings raised while compiling are silenced.
const parseScript = `import ast, json, sys, warnings
warnings.simplefilter("ignore")
out = sys.stdout
for raw in sys.stdin.buffer:
    raw = raw.strip()
    if not raw:
        continue
    req = json.loads(raw)
    rec = {"path": req["path"]}
    try:
        tree = ast.parse(req["source"], filename=req["path"])
        imports = []
        for node in ast.walk(tree):
            if isinstance(node, ast.Import):
                for alias in node.names:
                    imports.append({"module": alias.name, "line": node.lineno})
            elif isinstance(node, ast.ImportFrom):
                imports.append({
                    "module": node.module or "",
                    "level": node.level or 0,
                    "names": [alias.name for alias in node.names],
                    "from": True,
                    "line": node.lineno,
                })
        rec["ok"] = True
        rec["imports"] = imports
    except SyntaxError as exc:
        rec["ok"] = False
        rec["error"] = exc.msg or "invalid syntax"
        rec["line"] = exc.lineno or 0
        rec["col"] = exc.offset or 0
    except Exception as exc:
        rec["ok"] = False
        rec["error"] = "%s: %s" % (type(exc).__name__, exc)
    out.write("@@reqscan " + json.dumps(rec) + "\n")
out.flush()
`

// Source is a file handed to a BatchParser.
type Source struct {
	Path string
	Data []byte
}

// FileResult is the outcome of parsing one Source. Err is set when the file
// is not valid Python; Imports is nil in that case.
type FileResult struct {
	Imports []Import
	Err     error
}

// BatchParser parses many sources in one call, keyed by Source.Path.
type BatchParser interface {
	ParseAll(ctx context.Context, sources []Source) (map[string]FileResult, error)
}

// BuiltinParser parses with Parse and needs no interpreter.
type BuiltinParser struct{}

// Verify BuiltinParser implements BatchParser.
var _ BatchParser = BuiltinParser{}

// ParseAll parses every source with Parse.
func (BuiltinParser) ParseAll(ctx context.Context, sources []Source) (map[string]FileResult, error) {
	results := make(map[string]FileResult, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		imports, err := Parse(src.Path, src.Data)
		results[src.Path] = FileResult{Imports: imports, Err: err}
	}
	return results, nil
}

// InterpreterParser parses sources with the ast module of the target
// interpreter, so a file is rejected exactly when that Python rejects it.
type InterpreterParser struct {
	python      string
	dir         string
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// Verify InterpreterParser implements BatchParser.
var _ BatchParser = (*InterpreterParser)(nil)

// NewInterpreterParser creates a parser running python in dir.
func NewInterpreterParser(python, dir string) *InterpreterParser {
	return &InterpreterParser{
		python:      python,
		dir:         dir,
		execCommand: exec.CommandContext,
	}
}

// ParseAll sends every source to a single interpreter process. Sources that
// are not valid UTF-8 are rejected without being sent. Paths missing from the
// returned map were not reported by the interpreter. An error is returned
// only when the interpreter could not run at all.
func (p *InterpreterParser) ParseAll(ctx context.Context, sources []Source) (map[string]FileResult, error) {
	results := make(map[string]FileResult, len(sources))

	var input bytes.Buffer
	sent := 0
	for _, src := range sources {
		data := bytes.TrimPrefix(src.Data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			_, err := Parse(src.Path, data)
			results[src.Path] = FileResult{Err: err}
			continue
		}
		doc, err := sjson.Set("", "path", src.Path)
		if err == nil {
			doc, err = sjson.Set(doc, "source", string(data))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", src.Path, err)
		}
		input.WriteString(doc)
		input.WriteByte('\n')
		sent++
	}
	if sent == 0 {
		return results, nil
	}

	cmd := p.execCommand(ctx, p.python, "-c", parseScript)
	cmd.Dir = p.dir
	cmd.Stdin = &input
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	reported := decodeReport(stdout.Bytes(), results)

	if runErr != nil {
		stderrMsg := strings.TrimSpace(stderr.String())
		log.Debug("python parser exited with error", "python", p.python, "error", runErr, "stderr", stderrMsg)
		if reported == 0 {
			if stderrMsg != "" {
				return nil, fmt.Errorf("%s: %w", lastLine(stderrMsg), runErr)
			}
			return nil, fmt.Errorf("python parser failed: %w", runErr)
		}
	}
	return results, nil
}

// decodeReport stores every prefixed report line into results and returns
// how many were decoded.
func decodeReport(out []byte, results map[string]FileResult) int {
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line, ok := strings.CutPrefix(scanner.Text(), reportPrefix)
		if !ok || !gjson.Valid(line) {
			continue
		}
		record := gjson.Parse(line)
		path := record.Get("path").String()
		if path == "" {
			continue
		}
		count++

		if !record.Get("ok").Bool() {
			results[path] = FileResult{Err: &SyntaxError{
				Filename: path,
				Line:     int(record.Get("line").Int()),
				Col:      int(record.Get("col").Int()),
				Msg:      record.Get("error").String(),
			}}
			continue
		}

		imports := make([]Import, 0)
		record.Get("imports").ForEach(func(_, value gjson.Result) bool {
			imp := Import{
				Module: value.Get("module").String(),
				Level:  int(value.Get("level").Int()),
				From:   value.Get("from").Bool(),
				Line:   int(value.Get("line").Int()),
			}
			for _, name := range value.Get("names").Array() {
				imp.Names = append(imp.Names, name.String())
			}
			imports = append(imports, imp)
			return true
		})
		results[path] = FileResult{Imports: imports}
	}
	return count
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
