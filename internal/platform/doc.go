// Package platform isolates the few places where behavior depends on the
// host operating system: which command runner is available and how state
// files get their permission bits. Everything above this package stays
// platform-neutral.
package platform
