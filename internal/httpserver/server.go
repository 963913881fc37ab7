// Package httpserver wires the pipeline's external HTTP surface: the chat
// workspace's interactive-action callback, the Prometheus metrics
// endpoint, and the operations dashboard — using stdlib's net/http.ServeMux,
// no framework.
package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keanuklestil/reportinator/internal/callback"
	"github.com/keanuklestil/reportinator/internal/dashboard"
	"github.com/keanuklestil/reportinator/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// New builds the ServeMux for the pipeline's HTTP surface.
func New(callbackHandler *callback.Handler, dash *dashboard.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/callback/interactions", callbackHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if dash != nil {
		dash.Register(mux)
	}

	return mux
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, addr string, mux *http.ServeMux) error {
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[HTTP] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
