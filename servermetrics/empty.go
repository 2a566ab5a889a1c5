package servermetrics

import "io"

// NewEmpty implements Metrics, but does nothing.
func NewEmpty() Metrics {
	return empty{}
}

type empty struct{}

func (empty) RecordAccept()               {}
func (empty) RecordAcceptError()          {}
func (empty) RecordSession(_ DeltaType)   {}
func (empty) RecordBytes(_ string, _ int) {}
func (empty) WritePrometheus(_ io.Writer) {}
