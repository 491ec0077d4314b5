// Package sysinfo reports the host's OS version, build number and user.
package sysinfo

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/debloatkit/debloat/internal/runner"
)

// Unknown stands in for any field that could not be resolved.
const Unknown = "Unknown"

// Queries run through the runner.
const (
	VersionQuery = "[System.Environment]::OSVersion.VersionString"
	BuildQuery   = "(Get-CimInstance Win32_OperatingSystem).BuildNumber"
)

// Info describes the host.
type Info struct {
	OSVersion   string `json:"os_version"`
	BuildNumber string `json:"build_number"`
	Username    string `json:"username"`
}

// Collect queries the host through r. Fields that fail resolve to Unknown.
// The only error is runner.ErrUnsupportedPlatform, when r cannot run
// anything on this host.
func Collect(ctx context.Context, r runner.Runner) (Info, error) {
	version, err := query(ctx, r, VersionQuery)
	if errors.Is(err, runner.ErrUnsupportedPlatform) {
		return Info{}, err
	}
	build, _ := query(ctx, r, BuildQuery)

	return Info{
		OSVersion:   orUnknown(version),
		BuildNumber: orUnknown(build),
		Username:    orUnknown(username()),
	}, nil
}

func query(ctx context.Context, r runner.Runner, command string) (string, error) {
	out, err := r.Run(ctx, command)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Stdout), nil
}

func username() string {
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
