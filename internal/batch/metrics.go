package batch

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/ops"
)

// Metrics collects batch counters on a private registry so that several
// batches in one process (and tests) never share state.
type Metrics struct {
	registry *prometheus.Registry

	filesTotal      *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	operationsTotal *prometheus.CounterVec
	fileDuration    prometheus.Histogram
	outputPixels    prometheus.Histogram
	batchDuration   prometheus.Gauge
}

// NewMetrics registers the batch collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgproc_files_total",
				Help: "Total number of processed files",
			},
			[]string{"status"}, // status: ok, failed
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgproc_errors_total",
				Help: "Total number of per-file failures by error kind",
			},
			[]string{"kind"},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgproc_operations_total",
				Help: "Total number of operations applied to successfully edited files",
			},
			[]string{"operation"},
		),
		fileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imgproc_file_duration_seconds",
				Help:    "Time spent loading, editing and saving one file",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		outputPixels: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imgproc_output_pixels",
				Help:    "Pixel count of written images",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		batchDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "imgproc_batch_duration_seconds",
				Help: "Wall time of the last batch",
			},
		),
	}
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFile records the outcome of one file.
func (m *Metrics) RecordFile(res FileResult, req ops.Request) {
	if m == nil {
		return
	}
	m.fileDuration.Observe(res.Duration.Seconds())
	if res.Err != nil {
		m.filesTotal.WithLabelValues("failed").Inc()
		m.errorsTotal.WithLabelValues(imgerr.KindOf(res.Err)).Inc()
		return
	}
	m.filesTotal.WithLabelValues("ok").Inc()
	m.outputPixels.Observe(float64(res.Width * res.Height))
	for _, op := range req {
		m.operationsTotal.WithLabelValues(op.Kind.String()).Inc()
	}
}

// RecordBatch records the batch wall time.
func (m *Metrics) RecordBatch(r *Result) {
	if m == nil || r == nil {
		return
	}
	m.batchDuration.Set(r.Duration.Seconds())
}

// WriteTextfile writes the metrics in the text exposition format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
