// Package engine ties the catalog, the installed-package inventory and the
// batch executor together behind the two operations the CLI needs:
// reconciling install status and executing a batch.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/inventory"
	"github.com/debloatkit/debloat/internal/metrics"
	"github.com/debloatkit/debloat/internal/reconcile"
	"github.com/debloatkit/debloat/internal/runner"
)

// Options configures an Engine. Catalog, Inventory and Runner are required.
type Options struct {
	Catalog   *catalog.Store
	Inventory inventory.Enumerator
	Runner    runner.Runner

	// Policy defaults to reconcile.Substring.
	Policy reconcile.MatchPolicy
	// Degraded treats an inventory failure as an empty installed list
	// instead of failing ReconcileStatus.
	Degraded bool

	Progress batch.ProgressFunc
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// Engine is safe to reuse across calls; it holds no per-call state.
type Engine struct {
	opts     Options
	executor *batch.Executor
	log      *slog.Logger
}

// New validates opts and returns an Engine.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Catalog == nil:
		return nil, errors.New("engine: catalog is required")
	case opts.Inventory == nil:
		return nil, errors.New("engine: inventory is required")
	case opts.Runner == nil:
		return nil, errors.New("engine: runner is required")
	}
	if opts.Policy == nil {
		opts.Policy = reconcile.Substring{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		opts: opts,
		executor: &batch.Executor{
			Catalog:  opts.Catalog,
			Runner:   opts.Runner,
			Progress: opts.Progress,
			Metrics:  opts.Metrics,
			Logger:   log,
		},
		log: log,
	}, nil
}

// Catalog returns the store the engine was built with.
func (e *Engine) Catalog() *catalog.Store {
	return e.opts.Catalog
}

// ReconcileStatus enumerates installed packages now and returns every
// catalog entry annotated with its install status, in catalog order.
func (e *Engine) ReconcileStatus(ctx context.Context) ([]reconcile.Entry, error) {
	installed, err := e.opts.Inventory.Enumerate(ctx)
	if err != nil {
		if !e.opts.Degraded {
			return nil, fmt.Errorf("reconciling status: %w", err)
		}
		e.log.Warn("installed package list unavailable; reporting every entry as not installed", "error", err)
		installed = nil
	}
	e.log.Debug("reconciling", "entries", e.opts.Catalog.Len(), "installed", len(installed), "policy", e.opts.Policy.Name())
	return reconcile.Reconcile(e.opts.Catalog.Entries(), installed, e.opts.Policy), nil
}

// ExecuteBatch runs reqs in order and blocks until all have finished.
// Per-request failures are in the report; the error is reserved for
// failures of the call itself.
func (e *Engine) ExecuteBatch(ctx context.Context, reqs []batch.Request) (batch.Report, error) {
	e.log.Debug("executing batch", "requests", len(reqs))
	results := e.executor.Execute(ctx, reqs)
	return batch.Aggregate(reqs, results)
}

// Outcome is the value delivered by ExecuteBatchAsync.
type Outcome struct {
	Report batch.Report
	Err    error
}

// ExecuteBatchAsync runs ExecuteBatch on its own goroutine and delivers
// the outcome on the returned channel, which is closed afterwards. The
// batch itself still runs sequentially.
func (e *Engine) ExecuteBatchAsync(ctx context.Context, reqs []batch.Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		report, err := e.ExecuteBatch(ctx, reqs)
		ch <- Outcome{Report: report, Err: err}
	}()
	return ch
}
