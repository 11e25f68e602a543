// Package metrics provides Prometheus metrics for the app profile pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the pipeline metrics and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	rowsLoaded    *prometheus.CounterVec
	rowsDropped   *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	datasetRows   *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
	runsTotal     *prometheus.CounterVec
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide metrics for a single batch run

// NewManager creates a metrics manager on its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "appprofiles",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_loaded_total",
		Help:      "Data rows read from each source file",
	}, []string{"dataset"})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Rows removed by each cleaning stage",
	}, []string{"dataset", "stage"})

	m.parseFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_failures_total",
		Help:      "Numeric fields that failed to normalize and were left out of aggregation",
	}, []string{"dataset", "field"})

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Rows remaining after each stage",
	}, []string{"dataset", "stage"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_milliseconds",
		Help:      "Wall time spent in each pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Pipeline runs by outcome",
	}, []string{"status"})
}

// RecordRowsLoaded adds n loaded rows for a dataset.
func (m *Manager) RecordRowsLoaded(dataset string, n int) {
	m.rowsLoaded.WithLabelValues(dataset).Add(float64(n))
}

// RecordRowsDropped adds n rows removed by a stage.
func (m *Manager) RecordRowsDropped(dataset, stage string, n int) {
	m.rowsDropped.WithLabelValues(dataset, stage).Add(float64(n))
}

// RecordParseFailures adds n unparseable values of a field.
func (m *Manager) RecordParseFailures(dataset, field string, n int) {
	m.parseFailures.WithLabelValues(dataset, field).Add(float64(n))
}

// UpdateDatasetRows sets the row count after a stage.
func (m *Manager) UpdateDatasetRows(dataset, stage string, n int) {
	m.datasetRows.WithLabelValues(dataset, stage).Set(float64(n))
}

// RecordStageDuration observes a stage duration in milliseconds.
func (m *Manager) RecordStageDuration(stage string, ms float64) {
	m.stageDuration.WithLabelValues(stage).Observe(ms)
}

// RecordRun counts a finished run; status is "success" or "failure".
func (m *Manager) RecordRun(status string) {
	m.runsTotal.WithLabelValues(status).Inc()
}

// Registry returns the registry the manager writes to.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
