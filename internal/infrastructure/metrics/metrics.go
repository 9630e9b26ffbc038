package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesProcessed *prometheus.CounterVec
	EntriesRejected  *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsLocked  prometheus.Counter

	// Store metrics
	TransactionsEvicted prometheus.Counter

	// Run metrics
	RunDuration      prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Entry metrics
		EntriesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_processed_total",
				Help: "Total entries applied to the ledger by type",
			},
			[]string{"kind"},
		),
		EntriesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_rejected_total",
				Help: "Total entries rejected by type and reason",
			},
			[]string{"kind", "reason"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of client accounts created",
		}),
		AccountsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_locked_total",
			Help: "Total number of accounts locked by a chargeback",
		}),

		// Store metrics
		TransactionsEvicted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_evicted_total",
			Help: "Total transaction records evicted from the dispute window",
		}),

		// Run metrics
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_run_duration_seconds",
			Help: "Duration of the last ledger run",
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_last_run_timestamp_seconds",
			Help: "Unix time the last ledger run completed",
		}),
	}
}
