package audit

import "github.com/prometheus/client_golang/prometheus"

var (
	gateFailures        *prometheus.CounterVec
	explorationOutcomes *prometheus.CounterVec
)

func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec) {
	gate := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_audit_gate_failures_total",
			Help: "Candidates disqualified per audit gate",
		},
		[]string{"gate"},
	)
	expl := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_exploration_reservations_total",
			Help: "Exploration quota reservations by outcome",
		},
		[]string{"result"},
	)
	return gate, expl
}

func init() {
	gateFailures, explorationOutcomes = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers audit metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(gateFailures, explorationOutcomes)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	gateFailures, explorationOutcomes = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
