// Package metrics records batch operation counts and durations. The
// Textfile recorder writes them in the Prometheus text format so a
// node_exporter textfile collector can pick them up after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "debloat"

// Recorder observes finished operations.
type Recorder interface {
	ObserveOperation(mode string, success bool, d time.Duration)
}

// Noop discards every observation.
type Noop struct{}

// ObserveOperation implements Recorder.
func (Noop) ObserveOperation(string, bool, time.Duration) {}

// Textfile collects observations in a private registry and writes them to
// Path on Flush.
type Textfile struct {
	Path string

	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewTextfile returns a recorder that flushes to path.
func NewTextfile(path string) *Textfile {
	t := &Textfile{
		Path:     path,
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Catalog operations executed, by mode and result",
		}, []string{"mode", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Catalog operation duration by mode",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),
	}
	t.registry.MustRegister(t.operations, t.duration)
	return t
}

// ObserveOperation implements Recorder.
func (t *Textfile) ObserveOperation(mode string, success bool, d time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	t.operations.WithLabelValues(mode, result).Inc()
	t.duration.WithLabelValues(mode).Observe(d.Seconds())
}

// Flush writes the current values to Path, replacing the file atomically.
func (t *Textfile) Flush() error {
	if err := os.MkdirAll(filepath.Dir(t.Path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(t.Path, t.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", t.Path, err)
	}
	return nil
}
