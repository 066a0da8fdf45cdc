package runtime

import (
	"chatbot/observability"
	"sync"
	"sync/atomic"
	"time"
)

// AppContext is the process-wide mutable state shared by every dispatch
// run and the shutdown path.
type AppContext struct {
	accepting atomic.Bool
	inFlight  sync.WaitGroup
	metrics   *observability.Metrics
}

func NewAppContext(metrics *observability.Metrics) *AppContext {
	app := &AppContext{metrics: metrics}
	app.accepting.Store(true)
	return app
}

func (a *AppContext) Accepting() bool {
	return a.accepting.Load()
}

// StopAccepting flips the accept flag. It reports whether this call did the flip.
func (a *AppContext) StopAccepting() bool {
	return a.accepting.CompareAndSwap(true, false)
}

// Track registers a dispatch run. The returned func must be called when it ends.
func (a *AppContext) Track() func() {
	a.inFlight.Add(1)
	a.metrics.TrackInFlight(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			a.metrics.TrackInFlight(-1)
			a.inFlight.Done()
		})
	}
}

// WaitInFlight waits for tracked runs to end, at most grace.
// It reports whether every run finished in time. Runs are never cancelled.
func (a *AppContext) WaitInFlight(grace time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}
