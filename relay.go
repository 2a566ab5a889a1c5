package portfwd

import (
	"context"
	"net"

	"github.com/pires/go-proxyproto"
	"github.com/sirupsen/logrus"

	"github.com/skycoin/portfwd/netutil"
	"github.com/skycoin/portfwd/servermetrics"
)

// Dialer opens outbound connections. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Relay forwards accepted client connections to a single target.
// A Relay holds no per-session state and may run any number of sessions concurrently.
type Relay struct {
	target string
	conf   Config
	dialer Dialer
	log    logrus.FieldLogger
	m      servermetrics.Metrics
}

// NewRelay creates a Relay for the given target address.
func NewRelay(target string, conf Config, log logrus.FieldLogger, m servermetrics.Metrics) *Relay {
	conf.ensureDefaults()
	if m == nil {
		m = servermetrics.NewEmpty()
	}
	return &Relay{
		target: target,
		conf:   conf,
		dialer: &net.Dialer{Timeout: conf.DialTimeout},
		log:    log,
		m:      m,
	}
}

// SetDialer replaces the dialer used to reach the target.
func (r *Relay) SetDialer(d Dialer) { r.dialer = d }

// Target returns the target address.
func (r *Relay) Target() string { return r.target }

// Run dials the target on behalf of the inbound connection and relays bytes both ways until
// either direction ends. The inbound connection is always closed when Run returns.
func (r *Relay) Run(ctx context.Context, id uint64, in net.Conn) Outcome {
	log := r.log.WithField(FieldSession, id)

	out, err := r.dialer.DialContext(ctx, "tcp", r.target)
	if err != nil {
		r.m.RecordSession(servermetrics.DeltaConnectFail)
		if cErr := in.Close(); cErr != nil {
			log.WithError(cErr).Debug("Error closing client connection.")
		}
		return Outcome{
			Kind: OutcomeConnectFailed,
			Err:  &ConnectError{Target: r.target, Err: err},
		}
	}

	r.m.RecordSession(servermetrics.DeltaConnect)
	defer r.m.RecordSession(servermetrics.DeltaDisconnect)

	s := newSession(id, in, out, r.conf.ChunkSize, log, r.m)

	if r.conf.ProxyProtocol != 0 {
		header := proxyproto.HeaderProxyFromAddrs(r.conf.ProxyProtocol, in.RemoteAddr(), in.LocalAddr())
		if _, err := header.WriteTo(out); err != nil {
			s.close()
			return Outcome{
				Kind: OutcomeError,
				Dir:  Upstream,
				Err:  &TransferError{Dir: Upstream, Op: netutil.OpWrite, Err: err},
			}
		}
	}

	return s.relay(ctx)
}
