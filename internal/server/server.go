// internal/server/server.go
//
// HTTP server helper with production timeouts and graceful shutdown.
//
// Defaults
// --------
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – whole request, uploads included (30 s)
//   • WriteTimeout      – cap total response time (30 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// Run blocks until the context is cancelled, then drains in-flight
// requests for up to the grace period.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultGrace bounds Shutdown when Run's caller passes zero.
const DefaultGrace = 15 * time.Second

// New constructs an *http.Server with the defaults above.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves srv until ctx is done and then shuts it down.  It returns
// nil after a clean shutdown.
func Run(ctx context.Context, srv *http.Server, grace time.Duration) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, srv, ln, grace)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	if grace <= 0 {
		grace = DefaultGrace
	}

	errc := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("http server draining", zap.Duration("grace", grace))
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
