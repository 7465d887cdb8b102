// Package collector walks a project tree and gathers the top-level names of
// every module imported by its Python sources.
package collector
