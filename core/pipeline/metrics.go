package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	pipelineLatency     prometheus.Histogram
	decisionsTotal      *prometheus.CounterVec
	stageBudgetExceeded *prometheus.CounterVec
	pipelineFailures    *prometheus.CounterVec
)

func newCollectors() (prometheus.Histogram, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec) {
	lat := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_pipeline_latency_seconds",
		Help:    "End to end latency of dispatch pipeline runs",
		Buckets: []float64{.005, .01, .025, .05, .075, .1, .12, .13, .15, .25, .5, 1},
	})
	dec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_decisions_total",
			Help: "Dispatch decisions by final status",
		},
		[]string{"status"},
	)
	budget := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_stage_budget_exceeded_total",
			Help: "Pipeline stages that ran past their advisory budget",
		},
		[]string{"stage"},
	)
	fail := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_pipeline_failures_total",
			Help: "Pipeline runs that ended with an error, by failing stage",
		},
		[]string{"stage"},
	)
	return lat, dec, budget, fail
}

func init() {
	pipelineLatency, decisionsTotal, stageBudgetExceeded, pipelineFailures = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers pipeline metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(pipelineLatency, decisionsTotal, stageBudgetExceeded, pipelineFailures)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	pipelineLatency, decisionsTotal, stageBudgetExceeded, pipelineFailures = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
