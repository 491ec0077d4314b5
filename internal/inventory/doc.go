// Package inventory supplies the list of installed packages the catalog is
// reconciled against. An Enumerator produces a flat list of Records; the
// concrete enumerators read a file, hold a static list, or ask the host
// through a command runner.
package inventory
