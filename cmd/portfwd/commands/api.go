package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/skycoin/portfwd"
	"github.com/skycoin/portfwd/httputil"
	"github.com/skycoin/portfwd/metricsutil"
	"github.com/skycoin/portfwd/servermetrics"
)

const apiShutdownTimeout = 5 * time.Second

func newAPIHandler(log logrus.FieldLogger, m servermetrics.Metrics, fwd *portfwd.Forwarder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httputil.NewLogMiddleware(log))

	metricsutil.AddMetricsHandle(r, m)
	r.Get("/health", httputil.MakeHealthHandler([]httputil.HealthGrabberEntry{
		{
			Name: "forwarder",
			Grab: func(context.Context) (int, string) {
				addr := fwd.Addr()
				if addr == nil {
					return http.StatusServiceUnavailable, "not serving"
				}
				return http.StatusOK, fmt.Sprintf("listening on %s, forwarding to %s, %d active sessions",
					addr, fwd.Relay().Target(), fwd.ActiveSessions())
			},
		},
	}))
	return r
}

// serveAPI binds addr and serves h until ctx is done.
func serveAPI(ctx context.Context, log logrus.FieldLogger, addr string, h http.Handler) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics API to %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: apiShutdownTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to shut down metrics API.")
		}
	}()

	log.WithField("addr", lis.Addr()).Info("Serving metrics API...")
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics API stopped.")
		}
	}()
	return nil
}
