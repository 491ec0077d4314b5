package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/debloatkit/debloat/internal/runner"
	"go.yaml.in/yaml/v3"
)

// Enumerator lists installed packages. Implementations must return rather
// than block forever; a failure is reported as an error, never as an
// empty list.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Record, error)
}

// EnumerationError wraps any failure to produce the installed list.
type EnumerationError struct {
	Source string
	Err    error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerating installed packages from %s: %v", e.Source, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// Static is a fixed list of records.
type Static []Record

// Enumerate implements Enumerator.
func (s Static) Enumerate(context.Context) ([]Record, error) {
	out := make([]Record, len(s))
	copy(out, s)
	return out, nil
}

// FileEnumerator reads a JSON or YAML list of records from Path.
type FileEnumerator struct {
	Path string
}

// Enumerate implements Enumerator.
func (f FileEnumerator) Enumerate(context.Context) ([]Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &EnumerationError{Source: f.Path, Err: err}
	}

	var records []Record
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, &EnumerationError{Source: f.Path, Err: fmt.Errorf("parsing: %w", err)}
	}
	return records, nil
}

// AppxCommand lists provisioned Appx packages as JSON.
const AppxCommand = "Get-AppxPackage | Select-Object Name, PackageFullName, Version, Publisher | ConvertTo-Json -Compress"

// CommandEnumerator asks the host for its packages by running Command
// (AppxCommand by default) and decoding the JSON it prints.
type CommandEnumerator struct {
	Runner  runner.Runner
	Command string
}

// appxPackage is one element of ConvertTo-Json output.
type appxPackage struct {
	Name            string `json:"Name"`
	PackageFullName string `json:"PackageFullName"`
	Version         string `json:"Version"`
	Publisher       string `json:"Publisher"`
}

// Enumerate implements Enumerator.
func (c CommandEnumerator) Enumerate(ctx context.Context) ([]Record, error) {
	command := c.Command
	if command == "" {
		command = AppxCommand
	}
	source := c.Runner.Name() + " command"

	out, err := c.Runner.Run(ctx, command)
	if err != nil {
		return nil, &EnumerationError{Source: source, Err: err}
	}
	if out.ExitCode != 0 {
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("exit code %d", out.ExitCode)
		}
		return nil, &EnumerationError{Source: source, Err: fmt.Errorf("command failed: %s", msg)}
	}

	pkgs, err := decodeAppx(out.Stdout)
	if err != nil {
		return nil, &EnumerationError{Source: source, Err: err}
	}

	records := make([]Record, 0, len(pkgs))
	for _, p := range pkgs {
		id := p.PackageFullName
		if id == "" {
			id = p.Name
		}
		records = append(records, Record{
			Identifier:  id,
			DisplayName: p.Name,
			Version:     p.Version,
			Publisher:   p.Publisher,
		})
	}
	return records, nil
}

// decodeAppx accepts ConvertTo-Json output, which is an object for a single
// package, an array for several and nothing at all for none.
func decodeAppx(stdout string) ([]appxPackage, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var one appxPackage
		if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
			return nil, fmt.Errorf("decoding package JSON: %w", err)
		}
		return []appxPackage{one}, nil
	}

	var many []appxPackage
	if err := json.Unmarshal([]byte(trimmed), &many); err != nil {
		return nil, fmt.Errorf("decoding package JSON: %w", err)
	}
	return many, nil
}
