package portfwd

import (
	"context"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

const (
	testTimeout  = 5 * time.Second
	pollInterval = 10 * time.Millisecond

	msgChunk  = "Relayed chunk."
	msgNew    = "New connection."
	msgClosed = "Connection closed."
	msgFailed = "Failed to handle connection."
)

// newTestLogger returns a logger whose entries are captured by the returned hook.
// Setting TEST_LOGGING_LEVEL additionally prints entries of that level and above.
func newTestLogger(t *testing.T) (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)

	if lvl, ok := os.LookupEnv("TEST_LOGGING_LEVEL"); ok {
		level, err := logrus.ParseLevel(lvl)
		require.NoError(t, err)
		logger.SetOutput(os.Stderr)
		if level < logrus.TraceLevel {
			logger.SetLevel(level)
		}
	}
	return logger, hook
}

func newLocalListener(t *testing.T) net.Listener {
	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() }) //nolint:errcheck
	return lis
}

// serveTarget accepts connections on a new listener and hands each of them to fn.
func serveTarget(t *testing.T, fn func(conn net.Conn)) net.Listener {
	lis := newLocalListener(t)
	var wg sync.WaitGroup
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close() //nolint:errcheck
				fn(conn)
			}()
		}
	}()
	t.Cleanup(wg.Wait)
	return lis
}

// echoTarget echoes everything it reads until the peer closes.
func echoTarget(t *testing.T) net.Listener {
	return serveTarget(t, func(conn net.Conn) {
		_, _ = io.Copy(conn, conn) //nolint:errcheck
	})
}

// unreachableAddr returns an address nothing listens on.
func unreachableAddr(t *testing.T) string {
	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

// connPair returns both ends of a fresh TCP connection.
func connPair(t *testing.T) (client, server net.Conn) {
	lis := newLocalListener(t)

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := lis.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()

	client, err := net.Dial("tcp", lis.Addr().String())
	require.NoError(t, err)

	select {
	case server = <-accepted:
		require.NotNil(t, server)
	case <-time.After(testTimeout):
		t.Fatal("timed out accepting connection")
	}

	t.Cleanup(func() {
		_ = client.Close() //nolint:errcheck
		_ = server.Close() //nolint:errcheck
	})
	return client, server
}

// runRelay runs r in the background and returns a channel receiving its outcome.
func runRelay(ctx context.Context, r *Relay, id uint64, in net.Conn) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() { ch <- r.Run(ctx, id, in) }()
	return ch
}

func awaitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	select {
	case out := <-ch:
		return out
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for the relay to return")
		return Outcome{}
	}
}

func entriesWithMessage(hook *test.Hook, msg string) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			out = append(out, e)
		}
	}
	return out
}

func payload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + i/251)
	}
	return p
}
