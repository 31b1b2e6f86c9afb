package pipeline

import (
	"math"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LatencyClass grades a run latency against the alert thresholds.
type LatencyClass int

const (
	LatencyOK LatencyClass = iota
	LatencyWarning
	LatencyCritical
	LatencyOverTarget
)

func (c LatencyClass) String() string {
	switch c {
	case LatencyOK:
		return "ok"
	case LatencyWarning:
		return "warning"
	case LatencyCritical:
		return "critical"
	case LatencyOverTarget:
		return "over-target"
	default:
		return "unknown"
	}
}

// LatencyThresholds are the alert levels, in increasing order.
type LatencyThresholds struct {
	Warning  time.Duration
	Critical time.Duration
	Target   time.Duration
}

// Classify grades d. A latency equal to a threshold stays in the lower class.
func (t LatencyThresholds) Classify(d time.Duration) LatencyClass {
	switch {
	case d > t.Target:
		return LatencyOverTarget
	case d > t.Critical:
		return LatencyCritical
	case d > t.Warning:
		return LatencyWarning
	default:
		return LatencyOK
	}
}

// LatencyStats summarises the recent window.
type LatencyStats struct {
	Count   int
	Mean    time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Max     time.Duration
	Classes map[string]int
}

// LatencyMonitor keeps the latencies of the most recent runs.
type LatencyMonitor struct {
	mu         sync.Mutex
	thresholds LatencyThresholds
	window     []float64 // seconds, ring buffer
	next       int
	full       bool
	classes    map[LatencyClass]int
}

// NewLatencyMonitor keeps up to size samples.
func NewLatencyMonitor(size int, th LatencyThresholds) *LatencyMonitor {
	if size <= 0 {
		size = 1
	}
	return &LatencyMonitor{
		thresholds: th,
		window:     make([]float64, size),
		classes:    make(map[LatencyClass]int),
	}
}

// Observe records d and returns its class. Class counts are cumulative, the
// percentiles only cover the window.
func (m *LatencyMonitor) Observe(d time.Duration) LatencyClass {
	c := m.thresholds.Classify(d)
	m.mu.Lock()
	m.window[m.next] = d.Seconds()
	m.next = (m.next + 1) % len(m.window)
	if m.next == 0 {
		m.full = true
	}
	m.classes[c]++
	m.mu.Unlock()
	return c
}

// Snapshot computes the window statistics.
func (m *LatencyMonitor) Snapshot() LatencyStats {
	m.mu.Lock()
	n := m.next
	if m.full {
		n = len(m.window)
	}
	samples := slices.Clone(m.window[:n])
	classes := make(map[string]int, len(m.classes))
	for c, v := range m.classes {
		classes[c.String()] = v
	}
	m.mu.Unlock()

	st := LatencyStats{Count: len(samples), Classes: classes}
	if len(samples) == 0 {
		return st
	}
	slices.Sort(samples)
	st.Mean = seconds(stat.Mean(samples, nil))
	st.P50 = seconds(stat.Quantile(0.50, stat.Empirical, samples, nil))
	st.P95 = seconds(stat.Quantile(0.95, stat.Empirical, samples, nil))
	st.P99 = seconds(stat.Quantile(0.99, stat.Empirical, samples, nil))
	st.Max = seconds(samples[len(samples)-1])
	return st
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
