package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"powercap-metrics/internal/domain"
)

const namespace = "powermetrics"

// Recorder keeps the counters of a single run on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	recordsLoaded  prometheus.Counter
	recordsSkipped prometheus.Counter
	filesWritten   *prometheus.CounterVec
	filesFailed    prometheus.Counter
	chartsRendered *prometheus.CounterVec
	configWarnings prometheus.Counter
}

// NewRecorder creates a recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		recordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total number of raw measurement records loaded",
		}),
		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Total number of records dropped for missing fields",
		}),
		filesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Total number of CSV files written, by layout",
		}, []string{"kind"}),
		filesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_failed_total",
			Help:      "Total number of input files that could not be processed",
		}),
		chartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Total number of chart files rendered, by format",
		}, []string{"format"}),
		configWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_warnings_total",
			Help:      "Total number of device config files that yielded no value",
		}),
	}

	r.registry.MustRegister(
		r.recordsLoaded,
		r.recordsSkipped,
		r.filesWritten,
		r.filesFailed,
		r.chartsRendered,
		r.configWarnings,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordsLoaded(n int) {
	if n > 0 {
		r.recordsLoaded.Add(float64(n))
	}
}

func (r *Recorder) RecordsSkipped(n int) {
	if n > 0 {
		r.recordsSkipped.Add(float64(n))
	}
}

func (r *Recorder) FileWritten(kind string) {
	r.filesWritten.WithLabelValues(kind).Inc()
}

func (r *Recorder) FileFailed() {
	r.filesFailed.Inc()
}

func (r *Recorder) ChartRendered(format string) {
	r.chartsRendered.WithLabelValues(format).Inc()
}

func (r *Recorder) ConfigWarning() {
	r.configWarnings.Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("metrics: create dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}

var _ domain.RunRecorder = (*Recorder)(nil)
