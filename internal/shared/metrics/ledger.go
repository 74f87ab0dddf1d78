package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bet_tracker"

var (
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Ledger store operations by backend, operation and outcome.",
	}, []string{"backend", "op", "outcome"})

	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_seconds",
		Help:      "Ledger store operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "op"})

	LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_mutations_total",
		Help:      "Confirmed ledger mutations by kind.",
	}, []string{"kind"})

	ValidationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_rejections_total",
		Help:      "Bet submissions rejected before reaching the store.",
	}, []string{"reason"})

	OpenBets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_bets",
		Help:      "Pending bets in the loaded ledger.",
	})

	OpenExposure = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_exposure_dollars",
		Help:      "Dollar value of pending bets in the loaded ledger.",
	})

	AuditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Ledger events processed by the audit worker.",
	}, []string{"kind", "outcome"})
)

// ObserveStore registra contagem e latência de uma operação de store
func ObserveStore(backend, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOperations.WithLabelValues(backend, op, outcome).Inc()
	StoreLatency.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}
