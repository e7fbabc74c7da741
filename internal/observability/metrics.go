package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nutrition_recommender"

var (
	recommendationsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommendations",
		Name:      "served_total",
		Help:      "Recommendation requests served, by source (computed or cache).",
	}, []string{"source"})
	productScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommendations",
		Name:      "product_score",
		Help:      "Distribution of final product scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by result (hit, miss, error).",
	}, []string{"result"})
	backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of backend API calls including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	mealPlansGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "meal_plans",
		Name:      "generated_total",
		Help:      "Meal plans generated, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(recommendationsServed, productScores, cacheLookups, backendLatency, mealPlansGenerated)
}

// RecordRecommendations counts a served recommendation request.
func RecordRecommendations(fromCache bool) {
	source := "computed"
	if fromCache {
		source = "cache"
	}
	recommendationsServed.WithLabelValues(source).Inc()
}

func RecordProductScore(score float64) {
	productScores.Observe(score)
}

// RecordCacheLookup takes "hit", "miss" or "error".
func RecordCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordBackendCall observes the duration of one backend operation.
func RecordBackendCall(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backendLatency.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

func RecordMealPlan(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mealPlansGenerated.WithLabelValues(outcome).Inc()
}
