package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = defaultReadTimeout
	defaultShutdownTimeout = 10 * time.Second
)

// GraceServer wraps http.Server with signal-driven graceful shutdown.
type GraceServer struct {
	*http.Server

	shutdownTimeout time.Duration
}

// NewGraceServer creates a server with sane timeouts for the given handler.
func NewGraceServer(addr string, handler http.Handler) *GraceServer {
	return &GraceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// ListenAndServe serves until SIGINT or SIGTERM arrives, then drains in-flight
// requests before returning. Returns nil on a clean shutdown.
func (srv *GraceServer) ListenAndServe() error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
