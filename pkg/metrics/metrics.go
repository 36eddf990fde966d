package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ImagesTotal
const (
	OutcomeDownloaded = "downloaded"
	OutcomeSkipped    = "skipped"
	OutcomeErrored    = "errored"
)

// Metrics bundles Prometheus collectors for a reviewimg run.
type Metrics struct {
	Registry         *prometheus.Registry
	ReviewsTotal     *prometheus.CounterVec
	ImagesTotal      *prometheus.CounterVec
	DownloadDuration *prometheus.HistogramVec
	BytesTotal       *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	reviews := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewimg_reviews_total",
			Help: "Total review entries examined.",
		},
		[]string{"category"},
	)
	images := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewimg_images_total",
			Help: "Image references by outcome.",
		},
		[]string{"category", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewimg_download_duration_seconds",
			Help:    "Time spent fetching and writing one image.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"family"},
	)
	bytesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewimg_downloaded_bytes_total",
			Help: "Bytes written to disk.",
		},
		[]string{"category"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewimg_errors_total",
			Help: "Errors by type.",
		},
		[]string{"error_type"},
	)
	lastRun := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reviewimg_last_run_timestamp_seconds",
			Help: "Unix time the last category run finished.",
		},
	)

	registry.MustRegister(reviews, images, duration, bytesTotal, errorsTotal, lastRun)

	return &Metrics{
		Registry:         registry,
		ReviewsTotal:     reviews,
		ImagesTotal:      images,
		DownloadDuration: duration,
		BytesTotal:       bytesTotal,
		ErrorsTotal:      errorsTotal,
		LastRunTimestamp: lastRun,
	}
}

// IncReview counts one examined review entry.
func (m *Metrics) IncReview(category string) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(category).Inc()
}

// IncOutcome counts one image reference by outcome.
func (m *Metrics) IncOutcome(category, outcome string) {
	if m == nil {
		return
	}
	m.ImagesTotal.WithLabelValues(category, outcome).Inc()
}

// ObserveDownload records a download duration for a URL family.
func (m *Metrics) ObserveDownload(family string, d time.Duration) {
	if m == nil {
		return
	}
	if family == "" {
		family = "other"
	}
	m.DownloadDuration.WithLabelValues(family).Observe(d.Seconds())
}

// AddBytes adds written bytes for a category.
func (m *Metrics) AddBytes(category string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesTotal.WithLabelValues(category).Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// MarkRunFinished stamps the last run gauge.
func (m *Metrics) MarkRunFinished(at time.Time) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry in Prometheus text format, suitable for
// the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
