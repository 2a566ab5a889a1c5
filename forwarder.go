package portfwd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skycoin/portfwd/netutil"
	"github.com/skycoin/portfwd/servermetrics"
)

// Forwarder accepts client connections and relays each of them to the target
// in its own goroutine.
type Forwarder struct {
	relay *Relay
	log   logrus.FieldLogger
	m     servermetrics.Metrics

	lastID uint64 // last issued session id, accessed atomically
	active int64  // running sessions, accessed atomically
	wg     sync.WaitGroup

	addrMx sync.RWMutex
	addr   net.Addr
}

// NewForwarder creates a Forwarder relaying to target.
func NewForwarder(target string, conf Config, log logrus.FieldLogger, m servermetrics.Metrics) *Forwarder {
	if m == nil {
		m = servermetrics.NewEmpty()
	}
	return &Forwarder{
		relay: NewRelay(target, conf, log, m),
		log:   log,
		m:     m,
	}
}

// Relay returns the relay used for every session.
func (f *Forwarder) Relay() *Relay { return f.relay }

// Addr returns the address being served, or nil before Serve is called.
func (f *Forwarder) Addr() net.Addr {
	f.addrMx.RLock()
	defer f.addrMx.RUnlock()
	return f.addr
}

// ActiveSessions returns the number of sessions currently running.
func (f *Forwarder) ActiveSessions() int64 {
	return atomic.LoadInt64(&f.active)
}

// Listen binds a TCP listener on addr. A bind failure is returned wrapped in ErrBind.
func Listen(addr string) (net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w to %s: %v", ErrBind, addr, err)
	}
	return lis, nil
}

// ListenAndServe binds addr and serves it. A bind failure is returned wrapped in ErrBind.
func (f *Forwarder) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := Listen(addr)
	if err != nil {
		return err
	}
	return f.Serve(ctx, lis)
}

// Serve accepts connections from lis until ctx is cancelled or lis is closed.
// Accept failures are logged and retried. When Serve returns, lis is closed and every
// session it started has ended.
func (f *Forwarder) Serve(ctx context.Context, lis net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)

	f.addrMx.Lock()
	f.addr = lis.Addr()
	f.addrMx.Unlock()

	log := f.log.WithField("listen_addr", lis.Addr())

	go func() {
		<-ctx.Done()
		if err := lis.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.WithError(err).Warn("Error closing listener.")
		}
	}()

	log.WithField(FieldTarget, f.relay.Target()).Info("Serving forwarder.")
	defer func() {
		cancel()
		f.wg.Wait()
		log.Info("Stopped forwarder.")
	}()

	var backoff time.Duration
	for {
		conn, err := lis.Accept()
		if err != nil {
			// If context is cancelled, there is no error to report.
			if isDone(ctx) {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return ErrListenerClosed
			}
			f.m.RecordAcceptError()
			backoff = nextBackoff(backoff)
			log.WithError(err).
				WithField("retry_in", backoff).
				Warn("Failed to accept connection.")
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			continue
		}
		backoff = 0
		f.m.RecordAccept()

		id := f.nextSessionID()
		f.log.
			WithField(FieldSession, id).
			WithField(FieldClient, netutil.AddrString(conn.RemoteAddr(), UnknownAddr)).
			Info("New connection.")

		f.wg.Add(1)
		atomic.AddInt64(&f.active, 1)
		go f.handleConn(ctx, id, conn)
	}
}

func (f *Forwarder) nextSessionID() uint64 {
	return atomic.AddUint64(&f.lastID, 1)
}

func (f *Forwarder) handleConn(ctx context.Context, id uint64, conn net.Conn) {
	defer f.wg.Done()
	defer atomic.AddInt64(&f.active, -1)

	client := netutil.AddrString(conn.RemoteAddr(), UnknownAddr)
	out := f.relay.Run(ctx, id, conn)

	log := f.log.WithField(FieldSession, id).WithField(FieldClient, client)
	switch out.Kind {
	case OutcomeConnectFailed:
		log.WithError(out.Err).Error("Failed to handle connection.")
	case OutcomeError:
		log.WithError(out.Err).
			WithField(FieldDir, out.Dir).
			Error("Connection closed with error.")
	default:
		log.WithField(FieldDir, out.Dir).
			WithField("sent", out.Bytes[Upstream]).
			WithField("received", out.Bytes[Downstream]).
			Info("Connection closed.")
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	if d *= 2; d > maxAcceptBackoff {
		d = maxAcceptBackoff
	}
	return d
}
