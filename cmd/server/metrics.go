package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	// requests counts HTTP requests.
	// Labels: handler, code, method
	requests *prometheus.CounterVec

	// duration measures request latency in seconds.
	// Labels: handler, method
	duration *prometheus.HistogramVec

	// decodes counts decode outcomes.
	// Labels: outcome (matched, mismatch, malformed)
	decodes *prometheus.CounterVec

	// pairs counts form/lemma pairs encoded by batch requests.
	pairs prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edittree",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by handler and status code",
		}, []string{"handler", "code", "method"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edittree",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"handler", "method"}),
		decodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edittree",
			Name:      "decodes_total",
			Help:      "Decoded labels by outcome",
		}, []string{"outcome"}),
		pairs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "edittree",
			Name:      "batch_pairs_total",
			Help:      "Form and lemma pairs encoded by batch requests",
		}),
	}
}
