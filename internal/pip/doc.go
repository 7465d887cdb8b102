// Package pip runs the interpreter's package manager and indexes the
// installed distributions it reports.
//
// The freeze listing is reduced to a case-insensitive map from distribution
// name to the verbatim "name==version" line. Lines without a "==" separator
// (editable installs, direct URL references) are ignored.
package pip
