package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ServeOptions controls Serve.
type ServeOptions struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Ready, when set, receives the bound address once the listener is open.
	Ready  func(addr string)
	Out    io.Writer
	Logger *slog.Logger
}

// Serve runs handler until ctx is cancelled, then drains outstanding
// requests for at most ShutdownTimeout.
func Serve(ctx context.Context, handler http.Handler, opts ServeOptions) error {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Out, "Listening on %s", ln.Addr())
		serverErrors <- srv.Serve(ln)
	}()
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(opts.Out, "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			if opts.Logger != nil {
				opts.Logger.Error("graceful shutdown did not complete", "timeout", opts.ShutdownTimeout, "error", err)
			}
			if cerr := srv.Close(); cerr != nil {
				return errors.Join(err, cerr)
			}
			return err
		}
		printSystemMessage(opts.Out, "Server stopped gracefully")
		return nil
	}
}
