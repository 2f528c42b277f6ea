package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SignalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goldgate",
			Subsystem: "signal",
			Name:      "latency_seconds",
			Help:      "Latency of signal generation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	SignalCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldgate",
			Subsystem: "signal",
			Name:      "cache_total",
			Help:      "Signal cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	ModelFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldgate",
			Subsystem: "signal",
			Name:      "model_fallbacks_total",
			Help:      "Degraded signals by failure kind",
		},
		[]string{"reason"},
	)

	PaymentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldgate",
			Subsystem: "payment",
			Name:      "outcomes_total",
			Help:      "Payment gate outcomes",
		},
		[]string{"outcome"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SignalLatency, SignalCache, ModelFallbacks, PaymentOutcomes)
	})
}
