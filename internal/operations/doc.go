// Package operations runs the requirements pipeline end to end: collect
// imports, classify them, read the freeze listing and write the manifest.
package operations
