package pysource

import "strings"

// keywords are Python's hard keywords; none of them can name a module.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Import is a single imported module reference.
type Import struct {
	// Module is the dotted module path. It is empty for `from . import x`.
	Module string

	// Level is the number of leading dots of a relative from-import.
	Level int

	// Names lists the names bound by a from-import ("*" for star imports).
	Names []string

	// From is true for `from ... import ...` statements.
	From bool

	// Line is the 1-based line of the statement keyword.
	Line int
}

// TopLevel returns the first dotted segment of Module, or "" when the import
// names no module.
func (i Import) TopLevel() string {
	if i.Module == "" {
		return ""
	}
	top, _, _ := strings.Cut(i.Module, ".")
	return top
}

// Parse lexes src and returns every import statement it contains, in
// source order. filename is only used in error messages.
func Parse(filename string, src []byte) ([]Import, error) {
	tokens, err := newLexer(filename, src).run()
	if err != nil {
		return nil, err
	}
	p := &parser{filename: filename, toks: tokens}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.imports, nil
}

// TopLevelNames returns the distinct non-empty top-level names of imports,
// in first-seen order.
func TopLevelNames(imports []Import) []string {
	seen := make(map[string]bool, len(imports))
	names := make([]string, 0, len(imports))
	for _, imp := range imports {
		top := imp.TopLevel()
		if top == "" || seen[top] {
			continue
		}
		seen[top] = true
		names = append(names, top)
	}
	return names
}

type parser struct {
	filename string
	toks     []token
	i        int
	imports  []Import
}

func (p *parser) run() error {
	atStart := true
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.kind == tokEOF {
			return nil
		}

		if atStart && t.kind == tokName {
			switch t.text {
			case "import":
				if err := p.parseImport(); err != nil {
					return err
				}
				atStart = false
				continue
			case "from":
				if err := p.parseFrom(); err != nil {
					return err
				}
				atStart = false
				continue
			}
		}

		atStart = t.kind == tokNewline ||
			(t.kind == tokOp && t.depth == 0 && (t.text == ";" || t.text == ":"))
		p.i++
	}
	return nil
}

func (p *parser) cur() token {
	return p.toks[p.i]
}

func (p *parser) syntaxError(t token) error {
	return &SyntaxError{Filename: p.filename, Line: t.line, Col: t.col, Msg: "invalid syntax"}
}

func (p *parser) peekOp(op string) bool {
	t := p.cur()
	return t.kind == tokOp && t.text == op
}

func (p *parser) peekName(name string) bool {
	t := p.cur()
	return t.kind == tokName && t.text == name
}

func (p *parser) expectName() (string, error) {
	t := p.cur()
	if t.kind != tokName || keywords[t.text] {
		return "", p.syntaxError(t)
	}
	p.i++
	return t.text, nil
}

func (p *parser) expectOp(op string) error {
	if !p.peekOp(op) {
		return p.syntaxError(p.cur())
	}
	p.i++
	return nil
}

// expectEnd checks that the statement ends here without consuming the terminator.
func (p *parser) expectEnd() error {
	t := p.cur()
	if t.kind == tokNewline || t.kind == tokEOF || (t.kind == tokOp && t.text == ";") {
		return nil
	}
	return p.syntaxError(t)
}

func (p *parser) dottedName() (string, error) {
	first, err := p.expectName()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for p.peekOp(".") {
		p.i++
		part, err := p.expectName()
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "."), nil
}

// skipAlias consumes an optional `as NAME` clause.
func (p *parser) skipAlias() error {
	if !p.peekName("as") {
		return nil
	}
	p.i++
	_, err := p.expectName()
	return err
}

// parseImport handles `import a.b [as c], d`.
func (p *parser) parseImport() error {
	line := p.cur().line
	p.i++

	for {
		module, err := p.dottedName()
		if err != nil {
			return err
		}
		if err := p.skipAlias(); err != nil {
			return err
		}
		p.imports = append(p.imports, Import{Module: module, Line: line})

		if !p.peekOp(",") {
			break
		}
		p.i++
	}
	return p.expectEnd()
}

// parseFrom handles `from [.]*module import names`.
func (p *parser) parseFrom() error {
	line := p.cur().line
	p.i++

	level := 0
	for p.peekOp(".") {
		level++
		p.i++
	}

	var module string
	if level == 0 || !p.peekName("import") {
		var err error
		if module, err = p.dottedName(); err != nil {
			return err
		}
	}

	if !p.peekName("import") {
		return p.syntaxError(p.cur())
	}
	p.i++

	var names []string
	switch {
	case p.peekOp("*"):
		p.i++
		names = []string{"*"}
	case p.peekOp("("):
		p.i++
		var err error
		if names, err = p.importNames(true); err != nil {
			return err
		}
		if err := p.expectOp(")"); err != nil {
			return err
		}
	default:
		var err error
		if names, err = p.importNames(false); err != nil {
			return err
		}
	}

	p.imports = append(p.imports, Import{Module: module, Level: level, Names: names, From: true, Line: line})
	return p.expectEnd()
}

func (p *parser) importNames(parenthesized bool) ([]string, error) {
	var names []string
	for {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.skipAlias(); err != nil {
			return nil, err
		}
		names = append(names, name)

		if !p.peekOp(",") {
			return names, nil
		}
		p.i++
		if parenthesized && p.peekOp(")") {
			return names, nil
		}
	}
}
