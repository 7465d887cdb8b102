package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/indaco/reqscan/internal/printer"
	"github.com/indaco/reqscan/internal/stdlib"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Formatter renders scan reports.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a new Formatter with the specified output format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// Format renders the report.
func (f *Formatter) Format(r *Report) (string, error) {
	switch f.format {
	case FormatJSON:
		return formatJSON(r)
	case FormatTable:
		return formatTable(r), nil
	default:
		return formatText(r), nil
	}
}

func formatText(r *Report) string {
	var sb strings.Builder

	sb.WriteString(printer.Info("Imports"))
	sb.WriteString("\n")
	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")

	for _, o := range r.Origins {
		mark := printer.Faint("·")
		if o.External() {
			mark = printer.Success(printer.MarkOK)
		}
		fmt.Fprintf(&sb, "  %s %-24s %s\n", mark, o.Name, printer.Faint(describe(r.Root, o)))
	}
	if len(r.Origins) == 0 {
		sb.WriteString(printer.Faint("  no imports found"))
		sb.WriteString("\n")
	}

	if len(r.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(printer.Warning("Skipped files:"))
		sb.WriteString("\n")
		for _, fail := range r.Failures {
			fmt.Fprintf(&sb, "  %s %s: %v\n", printer.Warning(printer.MarkWarning), relPath(r.Root, fail.Path), fail.Err)
		}
	}

	if r.ProbeErr != nil {
		sb.WriteString("\n")
		sb.WriteString(printer.Warning(fmt.Sprintf("Interpreter probe failed, every import counted as standard library: %v", r.ProbeErr)))
		sb.WriteString("\n")
	}

	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Files: %d | Imports: %d | Third-party: %d | Skipped: %d\n",
		r.FilesScanned, len(r.Origins), len(r.External), len(r.Failures))
	return sb.String()
}

func formatTable(r *Report) string {
	rows := make([][]string, 0, len(r.Origins))
	for _, o := range r.Origins {
		rows = append(rows, []string{o.Name, string(o.Kind), describe(r.Root, o)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODULE", "ORIGIN", "LOCATION").
		Rows(rows...)

	return t.String() + "\n"
}

// formatJSON builds the document incrementally so field order is stable.
func formatJSON(r *Report) (string, error) {
	doc := `{}`
	var err error
	set := func(path string, value any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, value)
		}
	}

	set("root", r.Root)
	set("files_scanned", r.FilesScanned)
	set("imports", []any{})
	for _, o := range r.Origins {
		set("imports.-1", map[string]any{
			"name":     o.Name,
			"origin":   string(o.Kind),
			"path":     o.Path,
			"detail":   o.Detail,
			"external": o.External(),
		})
	}
	set("external", append([]string{}, r.External...))
	set("failures", []any{})
	for _, fail := range r.Failures {
		set("failures.-1", map[string]any{
			"path":  fail.Path,
			"kind":  fail.Kind.String(),
			"line":  fail.Line(),
			"error": fail.Err.Error(),
		})
	}
	if r.ProbeErr != nil {
		set("probe_error", r.ProbeErr.Error())
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	return gjson.Get(doc, "@pretty").Raw, nil
}

func describe(root string, o stdlib.Origin) string {
	switch o.Kind {
	case stdlib.OriginNotFound, stdlib.OriginError:
		if o.Detail != "" {
			return fmt.Sprintf("%s (%s)", o.Kind, o.Detail)
		}
		return string(o.Kind)
	case stdlib.OriginBuiltin:
		return "built-in"
	case stdlib.OriginLocal:
		return relPath(root, o.Path)
	default:
		return o.Path
	}
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
