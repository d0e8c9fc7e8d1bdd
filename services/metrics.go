package services

import (
	"sync/atomic"
	"time"
)

// Metrics counts calls made to the travel backend
type Metrics struct {
	calls   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64 // total nanoseconds
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

func (m *Metrics) record(duration time.Duration, err error) {
	m.calls.Add(1)
	m.latency.Add(duration.Nanoseconds())
	if err != nil {
		m.errors.Add(1)
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	calls := m.calls.Load()
	s := MetricsSnapshot{Calls: calls, Errors: m.errors.Load()}
	if calls > 0 {
		s.AvgLatencyMs = float64(m.latency.Load()) / float64(calls) / 1e6
	}
	return s
}

// ErrorRate returns the share of failed calls as a percentage
func (s MetricsSnapshot) ErrorRate() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Calls) * 100
}
