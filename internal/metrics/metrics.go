// Package metrics provides the centralized Prometheus metrics registry
// for the edge engine.
package metrics

import (
	"net/http"
	"sync"

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
	EdgeEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "edge_evaluations_total",
		Help:      "Total number of edge evaluations performed",
	})
	EdgeRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "edge_recommendations_total",
		Help:      "Total number of playable edge recommendations by tier",
	}, []string{"tier"})
	EdgeSuppressionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "edge_suppressions_total",
		Help:      "Total number of market-respect suppressions",
	})
	InsufficientDataTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "insufficient_data_total",
		Help:      "Total number of evaluations skipped for missing ratings",
	})
	DataQualityWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "data_quality_warnings_total",
		Help:      "Total number of degraded-input fallbacks",
	})
	ReplayGamesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "replay_games_processed_total",
		Help:      "Total number of games processed during backtest replays",
	})
	ReplayGamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "replay_games_skipped_total",
		Help:      "Total number of games skipped during backtest replays by reason",
	}, []string{"reason"})
)

// Gauge metrics
var (
	SeededTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "seeded_teams",
		Help:      "Number of teams currently seeded in the rating store",
	})
	ReplayBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "replay_bankroll",
		Help:      "Simulated bankroll during the current backtest replay",
	})
)

// Histogram metrics
var (
	SlateEvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "slate_evaluation_duration_seconds",
		Help:      "Duration of full-slate edge evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "replay_duration_seconds",
		Help:      "Duration of backtest replays in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EdgeEvaluationsTotal)
		registry.MustRegister(EdgeRecommendationsTotal)
		registry.MustRegister(EdgeSuppressionsTotal)
		registry.MustRegister(InsufficientDataTotal)
		registry.MustRegister(DataQualityWarningsTotal)
		registry.MustRegister(ReplayGamesProcessedTotal)
		registry.MustRegister(ReplayGamesSkippedTotal)

		registry.MustRegister(SeededTeams)
		registry.MustRegister(ReplayBankroll)

		registry.MustRegister(SlateEvaluationDuration)
		registry.MustRegister(ReplayDuration)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}
