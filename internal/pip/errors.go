package pip

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// ErrorInfo contains user-friendly error information.
type ErrorInfo struct {
	Category    string
	Message     string
	Suggestions []string
}

type errorPattern struct {
	pattern     *regexp.Regexp
	category    string
	message     string
	suggestions []string
}

// errorPatterns are matched against pip's stderr in order.
var errorPatterns = []errorPattern{
	{
		pattern:  regexp.MustCompile(`(?i)No module named pip\b`),
		category: "pip_missing",
		message:  "pip is not installed for this interpreter",
		suggestions: []string{
			"Bootstrap it with: python -m ensurepip --upgrade",
			"Point reqscan at an interpreter that has pip (--python or REQSCAN_PYTHON)",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)Permission denied`),
		category: "permission_denied",
		message:  "Permission denied while listing packages",
		suggestions: []string{
			"Check read access to the interpreter's site-packages directory",
			"Run reqscan with the same user that installed the packages",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)bad interpreter|cannot execute|Exec format error`),
		category: "broken_interpreter",
		message:  "The interpreter could not be started",
		suggestions: []string{
			"Recreate the virtual environment",
			"Point reqscan at a working interpreter (--python or REQSCAN_PYTHON)",
		},
	},
}

var interpreterNotFound = ErrorInfo{
	Category: "interpreter_not_found",
	Message:  "Python interpreter not found",
	Suggestions: []string{
		"Install Python or activate the project's virtual environment",
		"Point reqscan at an interpreter (--python or REQSCAN_PYTHON)",
	},
}

// parsePipError matches pip output against known patterns.
func parsePipError(err error, output string) *ErrorInfo {
	if errors.Is(err, exec.ErrNotFound) {
		info := interpreterNotFound
		return &info
	}
	for _, p := range errorPatterns {
		if p.pattern.MatchString(output) {
			return &ErrorInfo{
				Category:    p.category,
				Message:     p.message,
				Suggestions: p.suggestions,
			}
		}
	}
	return nil
}

// FormatPipError wraps a failed pip invocation. Known failures carry a
// category and suggestions; anything else keeps the last stderr line.
func FormatPipError(err error, command, output string) error {
	if err == nil {
		return nil
	}
	return &CommandError{
		Command:     command,
		Info:        parsePipError(err, output),
		Output:      strings.TrimSpace(output),
		OriginalErr: err,
	}
}

// CommandError is a failed pip invocation.
type CommandError struct {
	Command     string
	Info        *ErrorInfo
	Output      string
	OriginalErr error
}

// Error returns a single-line description suitable for console output.
func (e *CommandError) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("%s: %v", e.Info.Message, e.OriginalErr)
	}
	if e.Output != "" {
		lines := strings.Split(e.Output, "\n")
		return fmt.Sprintf("%s: %v", strings.TrimSpace(lines[len(lines)-1]), e.OriginalErr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.OriginalErr)
}

// Unwrap returns the original error.
func (e *CommandError) Unwrap() error {
	return e.OriginalErr
}

// Suggestions returns the remediation hints for err, if it is a known pip failure.
func Suggestions(err error) []string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Info != nil {
		return cmdErr.Info.Suggestions
	}
	return nil
}
