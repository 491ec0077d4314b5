// Package userdata resolves the on-disk layout under ~/.debloat/: the batch
// history file, the cloned catalog repository, extension catalog sources and
// the metrics textfile. Each location honors a DEBLOAT_* override.
package userdata
