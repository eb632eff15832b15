package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phenrril/freshtrade/internal/domain"
)

const prefix = "freshtrade"

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Matriz
	MatrixBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_matrix_build_duration_seconds",
			Help:    "Duration of feasibility matrix builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	PotentialsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_potentials",
			Help: "Potentials in the last matrix build, by status",
		},
		[]string{"kind", "status"},
	)
	MatrixInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_matrix_invalidations_total",
			Help: "Supplier price changes that invalidate matrix and opportunity views",
		},
	)
	OpportunitiesDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_opportunities_deactivated_total",
			Help: "Opportunities deactivated after a supplier price change",
		},
	)

	// Rutas y geocodificación
	RouteResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_route_resolutions_total",
			Help: "Route resolutions by resulting kind",
		},
		[]string{"kind"},
	)
	GeoCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_geo_calls_total",
			Help: "Calls to the external geocoding and routing services",
		},
		[]string{"operation", "result"},
	)
)

// TrackMatrixBuild devuelve la función que registra la duración de un cálculo.
func TrackMatrixBuild(kind string) func(start time.Time) {
	return func(start time.Time) {
		MatrixBuildDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

// RecordSummary publica el conteo por estado del último cálculo.
func RecordSummary(kind string, s domain.Summary) {
	PotentialsByStatus.WithLabelValues(kind, string(domain.StatusComplete)).Set(float64(s.Complete))
	PotentialsByStatus.WithLabelValues(kind, string(domain.StatusMissingPrice)).Set(float64(s.MissingPrice))
	PotentialsByStatus.WithLabelValues(kind, string(domain.StatusMissingTransport)).Set(float64(s.MissingTransport))
	PotentialsByStatus.WithLabelValues(kind, string(domain.StatusMissingBoth)).Set(float64(s.MissingBoth))
}

// RecordRoute cuenta una resolución; nil se registra como "none".
func RecordRoute(r *domain.ResolvedRoute) {
	kind := "none"
	if r != nil {
		kind = string(r.Kind)
	}
	RouteResolutions.WithLabelValues(kind).Inc()
}

func RecordGeoCall(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	GeoCalls.WithLabelValues(operation, result).Inc()
}
