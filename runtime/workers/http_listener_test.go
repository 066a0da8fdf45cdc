package workers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPListener_ServesUntilCancelled(t *testing.T) {
	req := require.New(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	worker := NewHTTPListener(slog.Default(), 0, handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Serve(ctx, listener) }()

	// Given a running listener
	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	req.NoError(err)
	_ = resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// When its context is cancelled
	cancel()

	// Then it returns cleanly
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(3 * time.Second):
		req.Fail("listener should stop on context cancellation")
	}
}
