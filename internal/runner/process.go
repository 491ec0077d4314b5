package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process
// is killed, so grandchildren holding them open cannot stall a batch.
const waitDelay = 2 * time.Second

// Process runs commands through an interpreter binary, passing the command
// string as the final argument.
type Process struct {
	name string
	bin  string
	args []string
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewPowerShell returns a runner invoking
// powershell -NoProfile -ExecutionPolicy Bypass -NonInteractive -Command <cmd>.
func NewPowerShell() *Process {
	return &Process{
		name: ShellPowerShell,
		bin:  "powershell",
		args: []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-NonInteractive", "-Command"},
	}
}

// NewShell returns a runner invoking sh -c <cmd>.
func NewShell() *Process {
	return &Process{name: ShellSh, bin: "sh", args: []string{"-c"}}
}

// Name implements Runner.
func (p *Process) Name() string { return p.name }

// Run implements Runner. Stdout and stderr are captured in full.
func (p *Process) Run(ctx context.Context, command string) (*Output, error) {
	bin, err := exec.LookPath(p.bin)
	if err != nil {
		return nil, fmt.Errorf("%s runner requires %s: %w", p.name, p.bin, err)
	}

	args := append(append([]string{}, p.args...), command)
	cmd := exec.CommandContext(ctx, bin, args...)
	if p.Env != nil {
		cmd.Env = p.Env
	} else {
		cmd.Env = os.Environ()
	}
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			if ctxErr := ctx.Err(); ctxErr != nil && output.Stderr == "" {
				output.Stderr = fmt.Sprintf("terminated: %v", ctxErr)
			}
			return output, nil
		}
		return nil, fmt.Errorf("starting %s: %w", p.name, err)
	}

	output.ExitCode = 0
	return output, nil
}
