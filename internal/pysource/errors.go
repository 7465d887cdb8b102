package pysource

import "fmt"

// SyntaxError describes why a source file could not be parsed.
type SyntaxError struct {
	// Filename is the path the source was read from.
	Filename string

	// Line is the 1-based line the error was detected on.
	Line int

	// Col is the 1-based byte column the error was detected at.
	Col int

	// Msg is the reason, worded after CPython's messages.
	Msg string
}

// Error formats the error the way Python prints a SyntaxError.
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (%s, line %d)", e.Msg, e.Filename, e.Line)
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Filename)
}
