package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and recommendation Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"},
	)

	SearchHitsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "search_hits_returned",
			Help:      "Number of hits returned per search page",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "recommend_requests_total",
			Help:      "Total number of recommendation requests",
		},
		[]string{"status"},
	)

	RecommendStrategyFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "recommend_strategy_failures_total",
			Help:      "Total recommendation strategy failures",
		},
		[]string{"strategy"},
	)
)

var serviceMetricsRegistered bool

// RegisterServiceMetrics registers search and recommendation metrics. Must be
// called once from main.
func RegisterServiceMetrics() {
	if serviceMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchHitsReturned)
	prometheus.MustRegister(RecommendRequestsTotal)
	prometheus.MustRegister(RecommendStrategyFailuresTotal)
	serviceMetricsRegistered = true
}
