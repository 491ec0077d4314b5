package cli

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/engine"
	"github.com/debloatkit/debloat/internal/history"
	"github.com/debloatkit/debloat/internal/inventory"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/metrics"
	"github.com/debloatkit/debloat/internal/reconcile"
	"github.com/debloatkit/debloat/internal/runner"
	"github.com/debloatkit/debloat/internal/userdata"
)

// catalogSources returns the main catalog directory followed by every
// user-local extension.
func catalogSources() ([]manifest.Source, error) {
	dir, err := config.Path(config.KeyCatalogDir)
	if err != nil {
		return nil, err
	}

	var sources []manifest.Source
	if userdata.DetectMode(dir) == userdata.ModeLocal {
		sources = append(sources, manifest.Source{Name: "catalog", BasePath: dir})
	} else {
		exists, err := userdata.CatalogExists()
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("no catalog found: run 'debloat catalog update' or pass --catalog-dir")
		}
		sources = append(sources, manifest.Source{Name: "catalog", BasePath: userdata.GetCatalogRoot()})
	}
	return append(sources, manifest.ExtensionSources(userdata.GetExtensionsRoot())...), nil
}

func loadCatalog() (*catalog.Store, []manifest.Source, error) {
	sources, err := catalogSources()
	if err != nil {
		return nil, nil, err
	}
	store, err := manifest.LoadSources(sources)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("catalog loaded", "entries", store.Len(), "sources", len(sources))
	return store, sources, nil
}

func newRunner() (runner.Runner, error) {
	r, err := runner.ForPlatform(runtime.GOOS, config.Get(config.KeyShell))
	if err != nil {
		return nil, err
	}
	return runner.WithTimeout(r, config.Duration(config.KeyTimeout)), nil
}

func newInventory(r runner.Runner) (inventory.Enumerator, error) {
	path, err := config.Path(config.KeyInventoryFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		return inventory.FileEnumerator{Path: path}, nil
	}
	return inventory.CommandEnumerator{Runner: r}, nil
}

// session bundles what a command needs to reconcile or execute.
type session struct {
	engine  *engine.Engine
	store   *catalog.Store
	sources []manifest.Source
	metrics *metrics.Textfile
}

func newSession(progress batch.ProgressFunc) (*session, error) {
	store, sources, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	r, err := newRunner()
	if err != nil {
		return nil, err
	}
	inv, err := newInventory(r)
	if err != nil {
		return nil, err
	}
	policy, err := reconcile.PolicyFor(config.Get(config.KeyMatchPolicy))
	if err != nil {
		return nil, err
	}

	s := &session{store: store, sources: sources}
	var rec metrics.Recorder = metrics.Noop{}
	if path, err := config.Path(config.KeyMetricsTextfile); err != nil {
		return nil, err
	} else if path != "" {
		s.metrics = metrics.NewTextfile(path)
		rec = s.metrics
	}

	s.engine, err = engine.New(engine.Options{
		Catalog:   store,
		Inventory: inv,
		Runner:    r,
		Policy:    policy,
		Degraded:  flagAllowEmptyInventory,
		Progress:  progress,
		Metrics:   rec,
		Logger:    slog.Default(),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// finish records a batch in history and flushes metrics. Failures here are
// logged and never change the batch outcome.
func (s *session) finish(report batch.Report) {
	if len(report.Items) > 0 {
		store := history.NewStore(userdata.GetHistoryPath())
		if _, err := store.Append(history.EntryFor(report)); err != nil {
			slog.Warn("could not record batch history", "error", err)
		}
	}
	if s.metrics != nil {
		if err := s.metrics.Flush(); err != nil {
			slog.Warn("could not write metrics", "error", err)
		}
	}
}
