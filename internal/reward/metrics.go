package reward

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cycles       prometheus.Counter
	cycleErrors  prometheus.Counter
	credited     *prometheus.CounterVec
	creditErrors *prometheus.CounterVec
	scheduled    prometheus.Gauge
}

// newMetrics registers the scheduler collectors on reg. A nil reg leaves
// them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "basepoint",
			Subsystem: "reward",
			Name:      "cycles_total",
			Help:      "Reward cycles that resolved holders and attempted credits.",
		}),
		cycleErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "basepoint",
			Subsystem: "reward",
			Name:      "cycle_errors_total",
			Help:      "Reward cycles that could not read the capture ledger.",
		}),
		credited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basepoint",
			Subsystem: "reward",
			Name:      "credited_total",
			Help:      "Treasury amount credited by reward cycles.",
		}, []string{"faction"}),
		creditErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basepoint",
			Subsystem: "reward",
			Name:      "credit_errors_total",
			Help:      "Faction credits that failed during a reward cycle.",
		}, []string{"faction"}),
		scheduled: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "basepoint",
			Subsystem: "reward",
			Name:      "cycle_scheduled",
			Help:      "1 while a reward cycle is scheduled for the running session.",
		}),
	}
}
