// Package metrics provides Prometheus metrics for ribophase scoring runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a scoring run.
type Manager struct {
	namespace   string
	subsystem   string
	constLabels map[string]string
	registry    prometheus.Registerer

	// Scoring results
	orfsScored     *prometheus.CounterVec
	orfsReported   prometheus.Counter
	indexLinesRead prometheus.Counter
	duplicateORFs  prometheus.Counter
	phaseScore     prometheus.Histogram
	validCodons    prometheus.Histogram
	scoringLatency prometheus.Histogram
	scoringErrors  prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueWaitLatency   prometheus.Histogram

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Result store and run
	storedRecords     prometheus.Gauge
	runDuration       prometheus.Gauge
	runLastUnix       prometheus.Gauge
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// latencyBucketsMs covers sub-millisecond scoring up to multi-second waits.
var latencyBucketsMs = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000} //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global registry and manager, e.g. to label every
// metric of a run with its run ID. Call it before any metric is recorded.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "ribophase",
		subsystem:   "detect",
		constLabels: make(map[string]string),
		registry:    prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.orfsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "orfs_scored_total",
		Help:        "ORFs scored, by translation status",
		ConstLabels: m.constLabels,
	}, []string{"status"})
	m.orfsReported = m.counter("orfs_reported_total", "ORFs written to the output table")
	m.indexLinesRead = m.counter("index_lines_read_total", "ORF index lines parsed")
	m.duplicateORFs = m.counter("duplicate_orfs_total", "ORF IDs seen more than once in the index")
	m.phaseScore = m.histogram("phase_score", "Distribution of ORF phase scores",
		prometheus.LinearBuckets(0.1, 0.1, 10))
	m.validCodons = m.histogram("valid_codons", "Distribution of retained codons per ORF",
		prometheus.ExponentialBuckets(1, 4, 8))
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "ORF scoring latency in milliseconds", latencyBucketsMs)
	m.scoringErrors = m.counter("scoring_errors_total", "ORFs that failed to score")

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the scoring queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the scoring queue")
	m.queueUtilization = m.gauge("queue_utilization", "Scoring queue fill ratio")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs rejected by the queue")
	m.queueWaitLatency = m.histogram("queue_wait_milliseconds", "Time producers block on a full queue", latencyBucketsMs)

	m.workerActiveCount = m.gauge("worker_active_count", "Running scoring workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Per-job worker latency including result storage", latencyBucketsMs)
	m.workerErrors = m.counter("worker_errors_total", "Worker job failures")

	m.storedRecords = m.gauge("stored_records", "Scored records held for ordered output")
	m.runDuration = m.gauge("run_duration_seconds", "Wall time of the last run")
	m.runLastUnix = m.gauge("run_last_completed_unixtime", "Completion time of the last run")
	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})
}

// RecordORFScored counts a scored ORF by status.
func (m *Manager) RecordORFScored(status string) {
	m.orfsScored.WithLabelValues(status).Inc()
}

// RecordORFReported counts a row written to the output table.
func (m *Manager) RecordORFReported() {
	m.orfsReported.Inc()
}

// RecordIndexLine counts a parsed index line.
func (m *Manager) RecordIndexLine() {
	m.indexLinesRead.Inc()
}

// RecordDuplicateORF counts a repeated ORF ID.
func (m *Manager) RecordDuplicateORF() {
	m.duplicateORFs.Inc()
}

// ObservePhaseScore records a phase score.
func (m *Manager) ObservePhaseScore(score float64) {
	m.phaseScore.Observe(score)
}

// ObserveValidCodons records the retained codon count of an ORF.
func (m *Manager) ObserveValidCodons(codons int) {
	m.validCodons.Observe(float64(codons))
}

// RecordScoringLatency records scoring latency in milliseconds.
func (m *Manager) RecordScoringLatency(latencyMs float64) {
	m.scoringLatency.Observe(latencyMs)
}

// RecordScoringError counts a scoring failure.
func (m *Manager) RecordScoringError() {
	m.scoringErrors.Inc()
}

// Package-level helpers on the global manager.

// RecordORFScored counts a scored ORF by status.
func RecordORFScored(status string) { globalManager.RecordORFScored(status) }

// RecordORFReported counts a row written to the output table.
func RecordORFReported() { globalManager.RecordORFReported() }

// RecordIndexLine counts a parsed index line.
func RecordIndexLine() { globalManager.RecordIndexLine() }

// RecordDuplicateORF counts a repeated ORF ID.
func RecordDuplicateORF() { globalManager.RecordDuplicateORF() }

// ObservePhaseScore records a phase score.
func ObservePhaseScore(score float64) { globalManager.ObservePhaseScore(score) }

// ObserveValidCodons records the retained codon count of an ORF.
func ObserveValidCodons(codons int) { globalManager.ObserveValidCodons(codons) }

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.RecordScoringLatency(latencyMs) }

// RecordScoringError counts a scoring failure.
func RecordScoringError() { globalManager.RecordScoringError() }

// Queue metrics

// UpdateQueueSize sets the queue backlog.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// RecordQueueWaitLatency records producer blocking time in milliseconds.
func RecordQueueWaitLatency(latencyMs float64) { globalManager.queueWaitLatency.Observe(latencyMs) }

// Worker metrics

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records per-job latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// Run metrics

// UpdateStoredRecords sets the number of records held by the result store.
func UpdateStoredRecords(count int) { globalManager.storedRecords.Set(float64(count)) }

// RecordRunCompleted stores the wall time and completion timestamp of a run.
func RecordRunCompleted(durationSeconds float64, completedUnix int64) {
	globalManager.runDuration.Set(durationSeconds)
	globalManager.runLastUnix.Set(float64(completedUnix))
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry behind the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return WriteRegistryTextfile(path, customRegistry)
}

// WriteRegistryTextfile writes the metrics gathered from g to path.
func WriteRegistryTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
