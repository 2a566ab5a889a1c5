package portfwd

import (
	"errors"
	"fmt"
)

// Startup errors.
var (
	ErrAddressParse = errors.New("invalid address")
	ErrBind         = errors.New("failed to bind listener")
)

// ErrListenerClosed is returned by Serve when the listener is closed underneath it.
var ErrListenerClosed = errors.New("listener closed")

// ConnectError is the outcome cause of a session whose outbound dial failed.
type ConnectError struct {
	Target string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to target %s: %v", e.Target, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TransferError is the outcome cause of a session whose copy loop failed mid-stream.
type TransferError struct {
	Dir Direction
	Op  string // "read" or "write"
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("error in %s transfer (%s): %v", e.Dir, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
