package pysource

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokNewline
	tokEOF
)

type token struct {
	kind  tokenKind
	text  string
	line  int
	col   int
	depth int // bracket depth the token was emitted at
}

type bracket struct {
	ch   byte
	line int
	col  int
}

// stringPrefixes are the lowercased literal prefixes accepted before a quote.
var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true, "t": true,
	"br": true, "rb": true, "fr": true, "rf": true, "tr": true, "rt": true,
}

var closing = map[byte]byte{')': '(', ']': '[', '}': '{'}

const operatorChars = "+-*/%&|^~<>=@.,:;"

type lexer struct {
	filename string
	src      []byte
	pos      int
	line     int
	lineAt   int // offset of the first byte of the current line
	stack    []bracket
	tokens   []token
}

func newLexer(filename string, src []byte) *lexer {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	return &lexer{filename: filename, src: src, line: 1}
}

func (l *lexer) col() int {
	return l.pos - l.lineAt + 1
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Filename: l.filename, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

// advance moves past one byte, keeping the line counters in sync.
func (l *lexer) advance() {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' || (c == '\r' && l.peek(0) != '\n') {
		l.line++
		l.lineAt = l.pos
	}
}

func (l *lexer) emit(kind tokenKind, text string, line, col int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, line: line, col: col, depth: len(l.stack)})
}

func (l *lexer) emitNewline() {
	if n := len(l.tokens); n == 0 || l.tokens[n-1].kind == tokNewline {
		return
	}
	l.emit(tokNewline, "", l.line, l.col())
}

func (l *lexer) run() ([]token, error) {
	if !utf8.Valid(l.src) {
		return nil, l.invalidEncoding()
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		line, col := l.line, l.col()

		switch {
		case c == '\n' || c == '\r':
			if len(l.stack) == 0 {
				l.emitNewline()
			}
			l.advance()
		case c == ' ' || c == '\t' || c == '\f':
			l.advance()
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		case c == '\\':
			if err := l.continuation(line, col); err != nil {
				return nil, err
			}
		case c == '\'' || c == '"':
			if err := l.lexString(line, col, ""); err != nil {
				return nil, err
			}
		case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
			l.lexNumber(line, col)
		case c == '(' || c == '[' || c == '{':
			l.emit(tokOp, string(c), line, col)
			l.stack = append(l.stack, bracket{ch: c, line: line, col: col})
			l.advance()
		case c == ')' || c == ']' || c == '}':
			if err := l.closeBracket(c, line, col); err != nil {
				return nil, err
			}
		case c == ':' && l.peek(1) == '=':
			l.emit(tokOp, ":=", line, col)
			l.pos += 2
		case c == '!' && l.peek(1) == '=':
			l.emit(tokOp, "!=", line, col)
			l.pos += 2
		case strings.IndexByte(operatorChars, c) >= 0:
			l.emit(tokOp, string(c), line, col)
			l.advance()
		case c == 0:
			return nil, l.errorf(line, col, "source code cannot contain null bytes")
		default:
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if !isIdentStart(r) {
				return nil, l.errorf(line, col, "invalid character '%c' (U+%04X)", r, r)
			}
			if err := l.lexName(line, col, size); err != nil {
				return nil, err
			}
		}
	}

	if n := len(l.stack); n > 0 {
		open := l.stack[n-1]
		return nil, l.errorf(open.line, open.col, "'%c' was never closed", open.ch)
	}

	l.emitNewline()
	l.emit(tokEOF, "", l.line, l.col())
	return l.tokens, nil
}

func (l *lexer) invalidEncoding() error {
	line, offset := 1, 0
	for offset < len(l.src) {
		r, size := utf8.DecodeRune(l.src[offset:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		if r == '\n' {
			line++
		}
		offset += size
	}
	return l.errorf(line, 0, "'utf-8' codec can't decode byte 0x%02x in position %d: invalid start byte", l.src[offset], offset)
}

func (l *lexer) continuation(line, col int) error {
	l.pos++
	switch {
	case l.pos >= len(l.src):
		return l.errorf(line, col, "unexpected EOF while parsing")
	case l.src[l.pos] == '\n' || l.src[l.pos] == '\r':
		if l.src[l.pos] == '\r' && l.peek(1) == '\n' {
			l.pos++
		}
		l.advance()
		return nil
	default:
		return l.errorf(line, col+1, "unexpected character after line continuation character")
	}
}

func (l *lexer) closeBracket(c byte, line, col int) error {
	n := len(l.stack)
	if n == 0 {
		return l.errorf(line, col, "unmatched '%c'", c)
	}
	open := l.stack[n-1]
	if open.ch != closing[c] {
		if open.line != line {
			return l.errorf(line, col, "closing parenthesis '%c' does not match opening parenthesis '%c' on line %d", c, open.ch, open.line)
		}
		return l.errorf(line, col, "closing parenthesis '%c' does not match opening parenthesis '%c'", c, open.ch)
	}
	l.stack = l.stack[:n-1]
	l.emit(tokOp, string(c), line, col)
	l.advance()
	return nil
}

// lexString consumes a string literal whose opening quote is at l.pos.
func (l *lexer) lexString(line, col int, prefix string) error {
	start := l.pos - len(prefix)
	if err := l.scanString(line, col, prefix); err != nil {
		return err
	}
	l.emit(tokString, string(l.src[start:l.pos]), line, col)
	return nil
}

// scanString moves past a string literal whose opening quote is at l.pos.
// Replacement fields of f- and t-strings are skipped as nested expressions,
// so they may contain any quote or a backslash.
func (l *lexer) scanString(line, col int, prefix string) error {
	lower := strings.ToLower(prefix)
	formatted := strings.ContainsAny(lower, "ft")
	raw := strings.Contains(lower, "r")

	quote := l.src[l.pos]
	triple := l.peek(1) == quote && l.peek(2) == quote
	if triple {
		l.pos += 3
	} else {
		l.pos++
	}

	for {
		if l.pos >= len(l.src) {
			if triple {
				return l.errorf(line, col, "unterminated triple-quoted string literal (detected at line %d)", l.line)
			}
			return l.errorf(line, col, "unterminated string literal (detected at line %d)", line)
		}

		c := l.src[l.pos]
		switch {
		case c == '\\' && formatted && (l.peek(1) == '{' || l.peek(1) == '}'):
			l.pos++
		case c == '\\' && formatted && !raw && l.peek(1) == 'N' && l.peek(2) == '{':
			for l.pos < len(l.src) && l.src[l.pos] != '}' && l.src[l.pos] != quote {
				l.advance()
			}
			if l.pos < len(l.src) && l.src[l.pos] == '}' {
				l.pos++
			}
		case c == '\\':
			l.advance()
			if l.pos < len(l.src) {
				if l.src[l.pos] == '\r' && l.peek(1) == '\n' {
					l.pos++
				}
				l.advance()
			}
		case formatted && c == '{' && l.peek(1) == '{':
			l.pos += 2
		case formatted && c == '{':
			fieldLine, fieldCol := l.line, l.col()
			l.pos++
			if err := l.skipField(fieldLine, fieldCol); err != nil {
				return err
			}
		case !triple && (c == '\n' || c == '\r'):
			return l.errorf(line, col, "unterminated string literal (detected at line %d)", line)
		case c == quote && !triple:
			l.pos++
			return nil
		case c == quote && l.peek(1) == quote && l.peek(2) == quote:
			l.pos += 3
			return nil
		default:
			l.advance()
		}
	}
}

// skipField moves past an f-string replacement field. l.pos is just after
// the opening brace; line and col locate that brace.
func (l *lexer) skipField(line, col int) error {
	depth := 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\'' || c == '"':
			if err := l.scanString(l.line, l.col(), ""); err != nil {
				return err
			}
		case isASCIILetter(c) || c == '_':
			start, startCol := l.pos, l.col()
			for l.pos < len(l.src) && (isASCIILetter(l.src[l.pos]) || isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
			prefix := string(l.src[start:l.pos])
			if q := l.peek(0); (q == '\'' || q == '"') && stringPrefixes[strings.ToLower(prefix)] {
				if err := l.scanString(l.line, startCol, prefix); err != nil {
					return err
				}
			}
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		case c == '(' || c == '[' || c == '{':
			depth++
			l.pos++
		case c == ')' || c == ']':
			depth--
			l.pos++
		case c == '}':
			l.pos++
			if depth == 0 {
				return nil
			}
			depth--
		case c == ':' && depth == 0:
			l.pos++
			return l.skipFormatSpec(line, col)
		default:
			l.advance()
		}
	}
	return l.errorf(line, col, "f-string: expecting '}'")
}

// skipFormatSpec moves past the format spec of a replacement field and its
// closing brace. The spec may hold nested fields.
func (l *lexer) skipFormatSpec(line, col int) error {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '{':
			fieldLine, fieldCol := l.line, l.col()
			l.pos++
			if err := l.skipField(fieldLine, fieldCol); err != nil {
				return err
			}
		case '}':
			l.pos++
			return nil
		default:
			l.advance()
		}
	}
	return l.errorf(line, col, "f-string: expecting '}'")
}

func (l *lexer) lexNumber(line, col int) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(c) || isASCIILetter(c) || c == '_' || c == '.':
			l.pos++
		case (c == '+' || c == '-') && isExponent(l.src[start:l.pos]):
			l.pos++
		default:
			l.emit(tokNumber, string(l.src[start:l.pos]), line, col)
			return
		}
	}
	l.emit(tokNumber, string(l.src[start:l.pos]), line, col)
}

func (l *lexer) lexName(line, col, size int) error {
	start := l.pos
	l.pos += size
	for l.pos < len(l.src) {
		r, n := utf8.DecodeRune(l.src[l.pos:])
		if !isIdentContinue(r) {
			break
		}
		l.pos += n
	}

	name := string(l.src[start:l.pos])
	if q := l.peek(0); (q == '\'' || q == '"') && stringPrefixes[strings.ToLower(name)] {
		return l.lexString(line, col, name)
	}
	l.emit(tokName, name, line, col)
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isExponent reports whether a numeric literal so far ends in a decimal exponent marker.
func isExponent(lit []byte) bool {
	if len(lit) < 2 || (lit[0] == '0' && len(lit) > 1 && strings.IndexByte("xXoObB", lit[1]) >= 0) {
		return false
	}
	last := lit[len(lit)-1]
	return last == 'e' || last == 'E'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) ||
		unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
