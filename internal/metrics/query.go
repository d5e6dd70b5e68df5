package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query Prometheus metrics.
var (
	QueriesParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geoquery",
			Name:      "queries_parsed_total",
			Help:      "Total number of parsed geo queries",
		},
		[]string{"status"}, // "ok" / "error"
	)

	DeprecatedOptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geoquery",
			Name:      "deprecated_options_total",
			Help:      "Total number of deprecated query options encountered",
		},
		[]string{"option"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geoquery",
			Name:      "search_duration_seconds",
			Help:      "Geo search execution duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"index"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geoquery",
			Name:      "search_hits",
			Help:      "Number of hits returned per geo search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"index"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesParsedTotal)
	prometheus.MustRegister(DeprecatedOptionsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchHits)
	queryMetricsRegistered = true
}
