// Package catalog holds the immutable set of known component definitions
// and the presets that name groups of them. A Store is built once from
// loaded entries and rejects duplicate or malformed entries up front, so
// every lookup afterwards is unambiguous.
//
// The package also maintains the optional git-backed catalog checkout under
// ~/.debloat/catalog-repo (clone, pull, freshness tracking).
package catalog
