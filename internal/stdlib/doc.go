// Package stdlib decides which top-level import names come from installed
// third-party distributions. It asks the target interpreter to import each
// name and inspects the file the module was loaded from: origins under a
// third-party marker (site-packages by default) are external, everything
// else, including every failure to load, counts as standard library.
package stdlib
