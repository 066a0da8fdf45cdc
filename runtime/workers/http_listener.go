package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const listenerShutdownTimeout = 2 * time.Second

// HTTPListener serves the keepalive router until its context is done.
type HTTPListener struct {
	log    *slog.Logger
	server *http.Server
}

func NewHTTPListener(log *slog.Logger, port int, handler http.Handler) *HTTPListener {
	return &HTTPListener{
		log: log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (w *HTTPListener) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", w.server.Addr, err)
	}
	return w.Serve(ctx, listener)
}

// Serve is Run on an already bound listener.
func (w *HTTPListener) Serve(ctx context.Context, listener net.Listener) error {
	w.log.Info("HTTP listener started", "addr", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- w.server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), listenerShutdownTimeout)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Warn("HTTP listener shutdown failed", "error", err)
		}
		w.log.Info("HTTP listener stopped")
		return nil
	}
}
