package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/metrics"
	"github.com/debloatkit/debloat/internal/runner"
)

// Catalog resolves entry ids. *catalog.Store implements it.
type Catalog interface {
	Lookup(id string) (catalog.Entry, bool)
}

// ProgressFunc is called twice per request: before it runs with a nil
// result, and after with the result that was recorded. It cannot change
// the result.
type ProgressFunc func(index, total int, req Request, result *Result)

// Executor runs batches against a catalog using a runner.
type Executor struct {
	Catalog Catalog
	Runner  runner.Runner

	// Optional.
	Progress ProgressFunc
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// Execute runs every request in order and returns one result per request.
// It returns only after the last request has finished.
//
// ctx is passed to the runner unchanged. Execute itself does not stop
// early when ctx is done; whatever the runner reports for the remaining
// requests is recorded.
func (x *Executor) Execute(ctx context.Context, reqs []Request) []Result {
	log := x.Logger
	if log == nil {
		log = slog.Default()
	}
	rec := x.Metrics
	if rec == nil {
		rec = metrics.Noop{}
	}

	results := make([]Result, 0, len(reqs))
	for i, req := range reqs {
		if x.Progress != nil {
			x.Progress(i, len(reqs), req, nil)
		}

		start := time.Now()
		res := x.run(ctx, req)
		elapsed := time.Since(start)

		rec.ObserveOperation(req.Mode.String(), res.Success, elapsed)
		log.Debug("operation finished",
			"index", i,
			"entry", req.EntryID,
			"mode", req.Mode.String(),
			"success", res.Success,
			"duration", elapsed,
		)

		results = append(results, res)
		if x.Progress != nil {
			r := res
			x.Progress(i, len(reqs), req, &r)
		}
	}
	return results
}

func (x *Executor) run(ctx context.Context, req Request) Result {
	entry, ok := x.Catalog.Lookup(req.EntryID)
	if !ok {
		return Failed("", ErrEntryNotFound.Error())
	}

	command := entry.Command
	if req.Mode == ModeRollback {
		if !entry.HasRollback() {
			return Failed("", ErrNoRollback.Error())
		}
		command = entry.RollbackCommand
	}

	out, err := x.Runner.Run(ctx, command)
	if err != nil {
		return Failed("", err.Error())
	}
	if out.ExitCode == 0 {
		return Succeeded(out.Stdout)
	}

	msg := strings.TrimSpace(out.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("command failed with exit code %d", out.ExitCode)
	}
	return Failed(out.Stdout, msg)
}
