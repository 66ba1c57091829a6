package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all metrics for the scan ingestion service
type Collector struct {
	// Submission counters
	submissionsTotal  *prometheus.CounterVec
	submissionsFailed *prometheus.CounterVec

	// Record counters
	recordsIngested prometheus.Counter
	recordsRejected *prometheus.CounterVec

	// Processing histograms
	payloadSizeBytes   prometheus.Histogram
	batchSize          prometheus.Histogram
	processingDuration prometheus.Histogram

	// Storage metrics
	storageErrors prometheus.Counter

	// Kafka metrics
	publishErrors prometheus.Counter
}

// NewCollector creates a collector registered on the default registry.
func NewCollector(namespace string) *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer, namespace)
}

// NewCollectorWith registers all metrics on the given registerer. Tests pass
// a fresh registry to avoid duplicate registration across cases.
func NewCollectorWith(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Payload submissions by kind (single, batch, file).",
		}, []string{"kind"}),
		submissionsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_failed_total",
			Help:      "Submissions rejected before processing, by reason.",
		}, []string{"reason"}),
		recordsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Records persisted to storage.",
		}),
		recordsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Records rejected during processing, by reason.",
		}, []string{"reason"}),
		payloadSizeBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payload_size_bytes",
			Help:      "Size of submitted payloads.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of elements per batch submission.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		processingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "End-to-end submission processing time.",
			Buckets:   prometheus.DefBuckets,
		}),
		storageErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Failed storage save attempts.",
		}),
		publishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Failed Kafka event publishes.",
		}),
	}
}

func (c *Collector) IncSubmissions(kind string)         { c.submissionsTotal.WithLabelValues(kind).Inc() }
func (c *Collector) IncSubmissionsFailed(reason string) { c.submissionsFailed.WithLabelValues(reason).Inc() }
func (c *Collector) IncRecordsIngested()                { c.recordsIngested.Inc() }
func (c *Collector) IncRecordsRejected(reason string)   { c.recordsRejected.WithLabelValues(reason).Inc() }
func (c *Collector) ObservePayloadSize(bytes int)       { c.payloadSizeBytes.Observe(float64(bytes)) }
func (c *Collector) ObserveBatchSize(n int)             { c.batchSize.Observe(float64(n)) }
func (c *Collector) ObserveProcessingDuration(seconds float64) {
	c.processingDuration.Observe(seconds)
}
func (c *Collector) IncStorageErrors() { c.storageErrors.Inc() }
func (c *Collector) IncPublishErrors() { c.publishErrors.Inc() }
