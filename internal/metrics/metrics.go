package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors updated during a batch run.
type Metrics struct {
	RowsProcessed    *prometheus.CounterVec
	ProviderErrors   *prometheus.CounterVec
	RequestSeconds   *prometheus.HistogramVec
	FallbackAttempts prometheus.Counter
	CoordinateChecks *prometheus.CounterVec
	RowsArchived     prometheus.Counter
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RowsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_rows_processed_total",
			Help: "Total number of processed table rows.",
		}, []string{"status"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_provider_errors_total",
			Help: "Total number of failed geocoding provider calls.",
		}, []string{"reason"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FallbackAttempts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_fallback_attempts_total",
			Help: "Total number of address-only fallback queries.",
		}),
		CoordinateChecks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_coordinate_checks_total",
			Help: "Geocoded coordinates checked against the bounding box.",
		}, []string{"result"}),
		RowsArchived: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_rows_archived_total",
			Help: "Total number of geocoded rows stored in the result archive.",
		}),
	}
}
