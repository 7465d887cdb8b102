// Package pysource extracts import statements from Python source files.
//
// InterpreterParser hands a batch of files to the target interpreter's ast
// module, so a file counts as unparsable exactly when that Python rejects it.
//
// Parse, exposed as BuiltinParser, is the fallback when no interpreter can
// run. It is not a full Python parser. The lexer understands everything that
// decides where a statement starts (strings in all their prefixed and
// triple-quoted forms including f-string replacement fields, comments,
// bracket nesting, backslash continuations) and rejects what CPython's
// tokenizer would also reject. Import statements are then parsed against the
// grammar of `import` and `from ... import`, wherever a statement can begin.
// Other syntax errors go unnoticed.
package pysource
