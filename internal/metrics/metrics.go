// Package metrics holds the Prometheus collectors shared by the engine and
// the HTTP server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pereval_provider_calls_total",
			Help: "Provider calls by provider, stage and outcome",
		},
		[]string{"provider", "stage", "outcome"},
	)

	providerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pereval_provider_call_duration_seconds",
			Help:    "Latency of provider calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
		[]string{"provider", "stage"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pereval_provider_calls_in_flight",
			Help: "Provider calls currently running",
		},
	)

	evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pereval_evaluations_total",
			Help: "Completed prompt evaluations by result",
		},
		[]string{"result"},
	)

	finalScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pereval_final_score",
			Help: "Most recent final score per model",
		},
		[]string{"model"},
	)
)

// ObserveCall records one finished provider call.
func ObserveCall(provider, stage string, ok bool, d time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	providerCalls.WithLabelValues(provider, stage, outcome).Inc()
	providerLatency.WithLabelValues(provider, stage).Observe(d.Seconds())
}

// CallStarted marks a provider call as in flight and returns its completion func.
func CallStarted() func() {
	inFlight.Inc()
	return inFlight.Dec
}

func ObserveEvaluation(ok bool) {
	if ok {
		evaluations.WithLabelValues("success").Inc()
		return
	}
	evaluations.WithLabelValues("error").Inc()
}

func SetFinalScore(model string, score float64) {
	finalScore.WithLabelValues(model).Set(score)
}
