// Package core holds the small set of abstractions shared by every reqscan
// package: the filesystem seam, file permission constants and defaults.
package core
