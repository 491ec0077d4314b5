// Package extension manages user-local catalog extensions: git checkouts
// under ~/.debloat/extensions/<name>/ whose manifest files are merged into
// the main catalog.
package extension
