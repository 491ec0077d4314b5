package runner

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Runner executes a single command string.
type Runner interface {
	// Name identifies the variant (e.g., "powershell", "sh", "unsupported").
	Name() string
	// Run blocks until the command exits. The error is non-nil only when
	// the command could not be started.
	Run(ctx context.Context, command string) (*Output, error)
}

// Output captures the result of a finished process.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Shell identifiers accepted by ForPlatform.
const (
	ShellAuto       = "auto"
	ShellPowerShell = "powershell"
	ShellSh         = "sh"
	ShellNone       = "none"
)

// ErrUnsupportedPlatform is the launch error of the Unsupported runner.
var ErrUnsupportedPlatform = errors.New("this application only runs on Windows")

// ForPlatform returns the runner for goos and the configured shell. "auto"
// selects PowerShell on Windows and Unsupported elsewhere; "sh" must be
// chosen explicitly because catalog commands target PowerShell.
func ForPlatform(goos, shell string) (Runner, error) {
	switch shell {
	case "", ShellAuto:
		if goos == "windows" {
			return NewPowerShell(), nil
		}
		return Unsupported{}, nil
	case ShellPowerShell:
		return NewPowerShell(), nil
	case ShellSh:
		return NewShell(), nil
	case ShellNone:
		return Unsupported{}, nil
	default:
		return nil, fmt.Errorf("unknown shell %q: supported shells are %q, %q, %q and %q",
			shell, ShellAuto, ShellPowerShell, ShellSh, ShellNone)
	}
}

// Unsupported refuses to launch anything. It is the runner on hosts the
// catalog commands cannot run on.
type Unsupported struct{}

// Name implements Runner.
func (Unsupported) Name() string { return ShellNone }

// Run implements Runner.
func (Unsupported) Run(context.Context, string) (*Output, error) {
	return nil, ErrUnsupportedPlatform
}

// WithTimeout bounds every Run of r by d. A zero or negative d returns r.
func WithTimeout(r Runner, d time.Duration) Runner {
	if d <= 0 {
		return r
	}
	return &timeoutRunner{inner: r, timeout: d}
}

type timeoutRunner struct {
	inner   Runner
	timeout time.Duration
}

func (t *timeoutRunner) Name() string { return t.inner.Name() }

func (t *timeoutRunner) Run(ctx context.Context, command string) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Run(ctx, command)
}

// Func adapts a function to Runner. Tests use it as a stub.
type Func func(ctx context.Context, command string) (*Output, error)

// Name implements Runner.
func (Func) Name() string { return "func" }

// Run implements Runner.
func (f Func) Run(ctx context.Context, command string) (*Output, error) {
	return f(ctx, command)
}
