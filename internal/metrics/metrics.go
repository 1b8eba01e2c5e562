// Package metrics provides the centralized Prometheus metrics registry for the engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FixturesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "fixtures_processed_total",
		Help:      "Total number of fixtures processed by prediction runs",
	})
	PredictionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "predictions_generated_total",
		Help:      "Total number of prediction records generated, by method",
	}, []string{"method"})
	PredictionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "prediction_failures_total",
		Help:      "Total number of fixtures skipped because prediction failed",
	})
	RatingUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "rating_updates_total",
		Help:      "Total number of settled fixtures applied to team ratings",
	})
	ClonePairsDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "clone_pairs_detected_total",
		Help:      "Total number of clone pairs detected",
	})
	ValueSignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_oracle",
		Name:      "value_signals_total",
		Help:      "Total number of positive expected value signals, by market",
	}, []string{"market"})
)

// Gauge metrics
var (
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "match_oracle",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed run, by run type",
	}, []string{"run"})
	TrackedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "match_oracle",
		Name:      "tracked_teams",
		Help:      "Number of teams with a stored rating",
	})
	AnaloguePoolSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "match_oracle",
		Name:      "analogue_pool_size",
		Help:      "Size of the settled history pool per odds source",
	}, []string{"source"})
)

// Histogram metrics
var (
	AnalogueSampleSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_oracle",
		Name:      "analogue_sample_size",
		Help:      "Number of historical analogues found per fixture estimate",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
	})
	PredictionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_oracle",
		Name:      "prediction_run_duration_seconds",
		Help:      "Duration of full prediction runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	CloneDetectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "match_oracle",
		Name:      "clone_detection_duration_seconds",
		Help:      "Duration of clone detection runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(FixturesProcessedTotal)
		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(PredictionFailuresTotal)
		registry.MustRegister(RatingUpdatesTotal)
		registry.MustRegister(ClonePairsDetectedTotal)
		registry.MustRegister(ValueSignalsTotal)

		// Register gauge metrics
		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(TrackedTeams)
		registry.MustRegister(AnaloguePoolSize)

		// Register histogram metrics
		registry.MustRegister(AnalogueSampleSize)
		registry.MustRegister(PredictionRunDuration)
		registry.MustRegister(CloneDetectionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFixtureProcessed records one fixture handled by a prediction run.
func RecordFixtureProcessed() {
	FixturesProcessedTotal.Inc()
}

// RecordPredictions records generated prediction rows for a method.
func RecordPredictions(method string, count int) {
	PredictionsGeneratedTotal.WithLabelValues(method).Add(float64(count))
}

// RecordPredictionFailure records a fixture skipped due to an error.
func RecordPredictionFailure() {
	PredictionFailuresTotal.Inc()
}

// RecordRatingUpdate records one settled fixture applied to ratings.
func RecordRatingUpdate() {
	RatingUpdatesTotal.Inc()
}

// RecordClonePairs records clone pairs found by a detection run.
func RecordClonePairs(count int) {
	ClonePairsDetectedTotal.Add(float64(count))
}

// RecordValueSignal records a positive expected value prediction.
func RecordValueSignal(market string) {
	ValueSignalsTotal.WithLabelValues(market).Inc()
}

// RecordRunCompleted stamps the completion time of a named run.
func RecordRunCompleted(run string, at time.Time) {
	LastRunTimestamp.WithLabelValues(run).Set(float64(at.Unix()))
}

// ObserveAnalogueSample records the sample size of one analogue estimate.
func ObserveAnalogueSample(size int) {
	AnalogueSampleSize.Observe(float64(size))
}
