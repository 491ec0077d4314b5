package platform

import "runtime"

// Supported host identifiers.
const (
	Windows = "windows"
	Linux   = "linux"
	Darwin  = "darwin"
)

// Current returns the operating system the binary is running on.
func Current() string {
	return runtime.GOOS
}

// IsWindows reports whether goos names Windows.
func IsWindows(goos string) bool {
	return goos == Windows
}
