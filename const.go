// Package portfwd relays TCP connections accepted on a local listener to a fixed target.
package portfwd

import "time"

// Constants.
const (
	// DefaultChunkSize is the size of the buffer each copy direction reads into.
	DefaultChunkSize = 8 * 1024

	// UnknownAddr replaces a peer address that cannot be obtained.
	UnknownAddr = "unknown"

	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Log field keys shared with the log formatter.
const (
	FieldSession = "session"
	FieldDir     = "dir"
	FieldClient  = "client"
	FieldTarget  = "target"
	FieldBytes   = "bytes"
)
