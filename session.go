package portfwd

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/skycoin/portfwd/netutil"
	"github.com/skycoin/portfwd/servermetrics"
)

// Session is one client connection paired with its connection to the target.
type Session struct {
	ID uint64

	in  net.Conn
	out net.Conn

	clientAddr string
	targetAddr string

	log       logrus.FieldLogger
	m         servermetrics.Metrics
	chunkSize int

	closeOnce sync.Once
}

func newSession(id uint64, in, out net.Conn, chunkSize int, log logrus.FieldLogger, m servermetrics.Metrics) *Session {
	return &Session{
		ID:         id,
		in:         in,
		out:        out,
		clientAddr: netutil.AddrString(in.RemoteAddr(), UnknownAddr),
		targetAddr: netutil.AddrString(out.RemoteAddr(), UnknownAddr),
		log:        log,
		m:          m,
		chunkSize:  chunkSize,
	}
}

// ClientAddr returns the client's address or UnknownAddr.
func (s *Session) ClientAddr() string { return s.clientAddr }

// TargetAddr returns the target's address or UnknownAddr.
func (s *Session) TargetAddr() string { return s.targetAddr }

type copyResult struct {
	dir Direction
	n   int64
	err error
}

// relay runs both copy directions and returns once the first of them has ended and both
// connections are closed.
func (s *Session) relay(ctx context.Context) Outcome {
	done := make(chan copyResult, 2)
	go s.copy(Upstream, s.out, s.in, done)
	go s.copy(Downstream, s.in, s.out, done)

	var first copyResult
	select {
	case first = <-done:
	case <-ctx.Done():
		s.close()
		first = <-done
		first.err = ctx.Err()
	}

	// Closing both ends unblocks the sibling direction. Its result is discarded.
	s.close()
	second := <-done

	out := Outcome{Kind: OutcomeCleanEOF, Dir: first.dir}
	out.Bytes[first.dir] = first.n
	out.Bytes[second.dir] = second.n

	if first.err != nil {
		out.Kind = OutcomeError
		out.Err = first.err

		var cErr *netutil.CopyError
		if errors.As(first.err, &cErr) {
			out.Err = &TransferError{Dir: first.dir, Op: cErr.Op, Err: cErr.Err}
		}
	}
	return out
}

func (s *Session) copy(dir Direction, dst net.Conn, src net.Conn, done chan<- copyResult) {
	log := s.log.WithFields(logrus.Fields{
		FieldDir:    dir,
		FieldClient: s.clientAddr,
		FieldTarget: s.targetAddr,
	})
	label := dirLabel(dir)

	buf := make([]byte, s.chunkSize)
	n, err := netutil.CopyChunks(dst, src, buf, func(n int) {
		s.m.RecordBytes(label, n)
		log.WithField(FieldBytes, n).Info("Relayed chunk.")
	})
	done <- copyResult{dir: dir, n: n, err: err}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		if err := s.in.Close(); err != nil {
			s.log.WithError(err).Debug("Error closing client connection.")
		}
		if err := s.out.Close(); err != nil {
			s.log.WithError(err).Debug("Error closing target connection.")
		}
	})
}

func dirLabel(dir Direction) string {
	if dir == Downstream {
		return "downstream"
	}
	return "upstream"
}
