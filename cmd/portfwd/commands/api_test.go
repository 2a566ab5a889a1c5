package commands

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"

	"github.com/skycoin/portfwd"
	"github.com/skycoin/portfwd/servermetrics"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w.Code, string(body)
}

func TestAPI(t *testing.T) {
	log, _ := test.NewNullLogger()
	m := servermetrics.NewVictoriaMetrics()
	fwd := portfwd.NewForwarder("127.0.0.1:9", portfwd.DefaultConfig(), log, m)
	h := newAPIHandler(log, m, fwd)

	code, body := get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "forwarder: [503] not serving\n", body)

	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- fwd.Serve(ctx, lis) }()
	require.Eventually(t, func() bool { return fwd.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	code, body = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "forwarding to 127.0.0.1:9, 0 active sessions")

	code, body = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "conn_accept_total 0")
	assert.Contains(t, body, "go_goroutines")

	cancel()
	require.NoError(t, <-errCh)
}

func TestServeAPI(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	require.NoError(t, serveAPI(ctx, log, addr, h))

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The address is taken while the API is served.
	assert.Error(t, serveAPI(ctx, log, addr, h))
}
