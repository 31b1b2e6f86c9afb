package tracker

import "github.com/prometheus/client_golang/prometheus"

var (
	candidatesFound   prometheus.Histogram
	retrievalFailures prometheus.Counter
	searchLatency     *prometheus.HistogramVec
)

func newCollectors() (prometheus.Histogram, prometheus.Counter, *prometheus.HistogramVec) {
	found := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_tracker_candidates",
		Help:    "Number of ranked candidates returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})
	fail := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_tracker_retrieval_failures_total",
		Help: "Number of failed asset directory queries",
	})
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_tracker_search_seconds",
			Help:    "Asset directory search and ranking latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25},
		},
		[]string{"method"},
	)
	return found, fail, lat
}

func init() {
	candidatesFound, retrievalFailures, searchLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers tracker metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(candidatesFound, retrievalFailures, searchLatency)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	candidatesFound, retrievalFailures, searchLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
