// Package reconcile annotates catalog entries with whether a matching
// package is currently installed.
//
// Reconcile is a pure function of its inputs: it keeps nothing between
// calls, so a status is only as fresh as the installed list it was given.
// How a match pattern is compared to an installed record is decided by a
// MatchPolicy. Substring, the default, treats a pattern and a package
// identifier as matching when either contains the other after case
// folding; Exact requires them to be equal.
package reconcile
