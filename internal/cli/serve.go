package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/aura"
	httpadapter "github.com/aretw0/aura/pkg/adapters/http"
)

// ShutdownTimeout is how long in-flight turns get to finish on shutdown.
const ShutdownTimeout = 25 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr            string
	RateLimitPerMin int
	// Listening, when set, receives the bound address once the listener is up.
	Listening func(addr string)
}

// Serve runs the webhook until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, rt *Runtime, opts ServeOptions, logger *slog.Logger) error {
	handler := httpadapter.NewHandler(rt.Engine,
		httpadapter.WithMetrics(rt.Metrics),
		httpadapter.WithRateLimit(opts.RateLimitPerMin),
		httpadapter.WithLogger(logger),
		httpadapter.WithVersion(aura.Version),
	)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting aura server", "addr", ln.Addr().String(), "version", aura.Version)
		serverErrors <- srv.Serve(ln)
	}()
	if opts.Listening != nil {
		opts.Listening(ln.Addr().String())
	}

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		logger.Info("Start shutdown", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Aura server stopped gracefully")
		return nil
	}
}
