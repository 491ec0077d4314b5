// Package runner is the command-execution capability used by batch
// execution, inventory enumeration and system info. A Runner takes one
// complete command string, blocks until the process exits and reports the
// exit code with captured stdout and stderr. A returned error always means
// the process could not be launched; a non-zero exit is not an error.
//
// ForPlatform picks the variant for the host: PowerShell on Windows, a
// POSIX shell when explicitly configured, and Unsupported otherwise.
package runner
