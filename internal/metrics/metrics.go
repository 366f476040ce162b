package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Generation requests by tier and outcome (success, limit, no_credits, not_found, error).
	PredictionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_requests_total",
		Help: "Generation requests by tier and outcome.",
	}, []string{"tier", "outcome"})

	CombinationsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "combinations_generated_total",
		Help: "Total number of combinations returned to clients.",
	})

	CreditsChargedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credits_charged_total",
		Help: "Credits deducted from metered accounts.",
	})

	PredictionDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediction_duration_seconds",
		Help:    "Handler duration for generation requests, ledger included.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	StatusCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "user_status_cache_total",
		Help: "user_status cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		PredictionRequestsTotal,
		CombinationsGeneratedTotal,
		CreditsChargedTotal,
		PredictionDurationSeconds,
		StatusCacheTotal,
	)
}
