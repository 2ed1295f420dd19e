// Package metrics keeps in-process counters and latencies for replay
// reconstructions.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBBoard/bbreplay-sub000/internal/events"
)

// RunMetrics tracks reconstruction throughput for a running process.
type RunMetrics struct {
	// RunLatency is the wall time of whole runs.
	RunLatency *Histogram

	RunsStarted      atomic.Uint64
	RunsCompleted    atomic.Uint64
	RunsStopped      atomic.Uint64
	EventsEmitted    atomic.Uint64
	CommandsConsumed atomic.Uint64

	mu        sync.Mutex
	byKind    map[string]uint64
	startTime time.Time
}

// NewRunMetrics creates a new metrics collector.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		RunLatency: NewHistogram(1000),
		byKind:     make(map[string]uint64),
		startTime:  time.Now(),
	}
}

// RecordRun adds a finished run.
func (m *RunMetrics) RecordRun(s events.RunFinishedEvent) {
	m.CommandsConsumed.Add(uint64(s.CommandsTotal - s.CommandsRemaining))
	if !s.Finished.IsZero() && !s.Started.IsZero() {
		m.RunLatency.Record(s.Finished.Sub(s.Started))
	}
	if s.Completed {
		m.RunsCompleted.Add(1)
		return
	}
	m.RunsStopped.Add(1)
	m.mu.Lock()
	m.byKind[s.ErrorKind]++
	m.mu.Unlock()
}

// RunStats is a snapshot of RunMetrics.
type RunStats struct {
	RunLatency       LatencyStats      `json:"run_latency"`
	RunsStarted      uint64            `json:"runs_started"`
	RunsCompleted    uint64            `json:"runs_completed"`
	RunsStopped      uint64            `json:"runs_stopped"`
	StoppedByKind    map[string]uint64 `json:"stopped_by_kind"`
	EventsEmitted    uint64            `json:"events_emitted"`
	CommandsConsumed uint64            `json:"commands_consumed"`
	CompletionRate   float64           `json:"completion_rate"` // percentage of finished runs
	Uptime           string            `json:"uptime"`
}

// LatencyStats contains statistics for a latency histogram.
type LatencyStats struct {
	Mean  float64 `json:"mean"` // milliseconds
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *RunMetrics) GetStats() *RunStats {
	m.mu.Lock()
	byKind := make(map[string]uint64, len(m.byKind))
	for k, v := range m.byKind {
		byKind[k] = v
	}
	uptime := time.Since(m.startTime).Round(time.Second).String()
	m.mu.Unlock()

	completed, stopped := m.RunsCompleted.Load(), m.RunsStopped.Load()
	rate := 0.0
	if completed+stopped > 0 {
		rate = float64(completed) / float64(completed+stopped) * 100
	}

	return &RunStats{
		RunLatency:       m.RunLatency.Summary(),
		RunsStarted:      m.RunsStarted.Load(),
		RunsCompleted:    completed,
		RunsStopped:      stopped,
		StoppedByKind:    byKind,
		EventsEmitted:    m.EventsEmitted.Load(),
		CommandsConsumed: m.CommandsConsumed.Load(),
		CompletionRate:   rate,
		Uptime:           uptime,
	}
}

// Reset clears all metrics.
func (m *RunMetrics) Reset() {
	m.RunLatency.Reset()
	m.RunsStarted.Store(0)
	m.RunsCompleted.Store(0)
	m.RunsStopped.Store(0)
	m.EventsEmitted.Store(0)
	m.CommandsConsumed.Store(0)

	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.byKind)
	m.startTime = time.Now()
}

// Observer feeds a dispatcher's runs into RunMetrics.
type Observer struct {
	metrics *RunMetrics
}

// NewObserver creates an observer recording into m.
func NewObserver(m *RunMetrics) *Observer {
	return &Observer{metrics: m}
}

// OnEvent counts replay events and records finished runs.
func (o *Observer) OnEvent(event events.Event) error {
	switch event.Type {
	case events.TypeRunStarted:
		o.metrics.RunsStarted.Add(1)
	case events.TypeRunFinished:
		if s, ok := events.GetTypedData[events.RunFinishedEvent](event); ok {
			o.metrics.RecordRun(s)
		}
	default:
		o.metrics.EventsEmitted.Add(1)
	}
	return nil
}

// GetName returns the observer's name.
func (o *Observer) GetName() string {
	return "MetricsObserver"
}

// ShouldHandle returns true for all events.
func (o *Observer) ShouldHandle(eventType string) bool {
	return true
}
