// Package netutil contains network helpers shared by the forwarder.
package netutil

import (
	"errors"
	"fmt"
	"io"
)

// Copy operations.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// CopyError reports which side of a copy loop failed.
type CopyError struct {
	Op  string
	Err error
}

func (e *CopyError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *CopyError) Unwrap() error { return e.Err }

// CopyChunks copies from src to dst one read at a time, using buf as the chunk buffer.
// Every chunk is written fully before the next read and onChunk (if not nil) is called with
// the chunk size after each write.
// It returns the number of bytes written and a nil error once src reports io.EOF.
// Any other failure is returned as a *CopyError.
func CopyChunks(dst io.Writer, src io.Reader, buf []byte, onChunk func(n int)) (int64, error) {
	if len(buf) == 0 {
		return 0, errors.New("empty copy buffer")
	}
	var written int64
	for {
		nr, rErr := src.Read(buf)
		if nr > 0 {
			nw, wErr := dst.Write(buf[:nr])
			if nw > 0 {
				written += int64(nw)
			}
			if wErr == nil && nw != nr {
				wErr = io.ErrShortWrite
			}
			if wErr != nil {
				return written, &CopyError{Op: OpWrite, Err: wErr}
			}
			if onChunk != nil {
				onChunk(nr)
			}
		}
		if rErr != nil {
			if rErr == io.EOF {
				return written, nil
			}
			return written, &CopyError{Op: OpRead, Err: rErr}
		}
	}
}
