package scan

import (
	"fmt"
	"strings"

	"github.com/indaco/reqscan/internal/collector"
	"github.com/indaco/reqscan/internal/stdlib"
)

// OutputFormat selects how the scan report is rendered.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatTable:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q: expected text, json or table", s)
	}
}

// Report is the data rendered by the scan command.
type Report struct {
	Root         string
	FilesScanned int
	Origins      []stdlib.Origin
	External     []string
	Failures     []collector.Failure
	ProbeErr     error
}

// NewReport combines a collection result and its classification. With
// externalOnly, only third-party origins are kept.
func NewReport(result *collector.Result, classification *stdlib.Classification, externalOnly bool) *Report {
	r := &Report{
		Root:         result.Root,
		FilesScanned: result.FilesScanned,
		External:     classification.External(),
		Failures:     result.Failures,
		ProbeErr:     classification.ProbeErr,
	}
	for _, o := range classification.Origins {
		if externalOnly && !o.External() {
			continue
		}
		r.Origins = append(r.Origins, o)
	}
	return r
}
