package servermetrics

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// VictoriaMetrics implements Metrics on top of a private VictoriaMetrics set.
type VictoriaMetrics struct {
	set *metrics.Set

	activeSessions int64

	accepted            *metrics.Counter
	acceptErrors        *metrics.Counter
	activeSessionsGauge *metrics.Gauge
	successfulSessions  *metrics.Counter
	failedSessions      *metrics.Counter
	closedSessions      *metrics.Counter

	bytesMx sync.Mutex
	bytes   map[string]*metrics.Counter
}

// NewVictoriaMetrics returns the Victoria Metrics implementation of Metrics.
func NewVictoriaMetrics() *VictoriaMetrics {
	m := &VictoriaMetrics{
		set:   metrics.NewSet(),
		bytes: make(map[string]*metrics.Counter),
	}

	m.accepted = m.set.NewCounter("conn_accept_total")
	m.acceptErrors = m.set.NewCounter("conn_accept_fail_total")
	m.activeSessionsGauge = m.set.NewGauge("active_sessions_count", func() float64 {
		return float64(m.ActiveSessions())
	})
	m.successfulSessions = m.set.NewCounter("session_success_total")
	m.failedSessions = m.set.NewCounter("session_fail_total")
	m.closedSessions = m.set.NewCounter("session_closed_total")

	return m
}

// ActiveSessions gets current active sessions count.
func (m *VictoriaMetrics) ActiveSessions() int64 {
	return atomic.LoadInt64(&m.activeSessions)
}

// RecordAccept implements Metrics.
func (m *VictoriaMetrics) RecordAccept() {
	m.accepted.Inc()
}

// RecordAcceptError implements Metrics.
func (m *VictoriaMetrics) RecordAcceptError() {
	m.acceptErrors.Inc()
}

// RecordSession implements Metrics.
func (m *VictoriaMetrics) RecordSession(delta DeltaType) {
	switch delta {
	case DeltaConnectFail:
		m.failedSessions.Inc()
	case DeltaConnect:
		m.successfulSessions.Inc()
		atomic.AddInt64(&m.activeSessions, 1)
	case DeltaDisconnect:
		m.closedSessions.Inc()
		atomic.AddInt64(&m.activeSessions, -1)
	default:
		panic(fmt.Errorf("invalid delta: %d", delta))
	}
}

// RecordBytes implements Metrics.
func (m *VictoriaMetrics) RecordBytes(dir string, n int) {
	m.bytesCounter(dir).Add(n)
}

func (m *VictoriaMetrics) bytesCounter(dir string) *metrics.Counter {
	m.bytesMx.Lock()
	defer m.bytesMx.Unlock()

	c, ok := m.bytes[dir]
	if !ok {
		c = m.set.GetOrCreateCounter(fmt.Sprintf(`relayed_bytes_total{direction=%q}`, dir))
		m.bytes[dir] = c
	}
	return c
}

// WritePrometheus writes the forwarder metrics in Prometheus text format.
func (m *VictoriaMetrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}
