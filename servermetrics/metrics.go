// Package servermetrics contains the forwarder metrics.
package servermetrics

import "io"

// DeltaType represents the change of the session population being recorded.
type DeltaType int

// Session deltas.
const (
	// DeltaConnectFail records a session whose outbound dial failed.
	DeltaConnectFail DeltaType = 0
	// DeltaConnect records a session whose outbound dial succeeded.
	DeltaConnect DeltaType = 1
	// DeltaDisconnect records the end of a connected session.
	DeltaDisconnect DeltaType = -1
)

// Metrics collects forwarder metrics.
type Metrics interface {
	RecordAccept()
	RecordAcceptError()
	RecordSession(delta DeltaType)
	RecordBytes(dir string, n int)
	WritePrometheus(w io.Writer)
}
