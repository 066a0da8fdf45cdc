package workers

import (
	"chatbot/domain"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Tracker registers a dispatch run, the returned func ends it.
type Tracker interface {
	Track() func()
}

// DispatchFunc runs one classified message through the command pipeline.
type DispatchFunc func(ctx context.Context, message domain.Message) error

// MessagePump drains transport events, classifies them and starts one
// goroutine per message. Runs are not cancelled when the pump stops:
// the shutdown path waits for them through the Tracker.
type MessagePump struct {
	log      *slog.Logger
	events   <-chan domain.RawMessage
	tracker  Tracker
	dispatch DispatchFunc
}

func NewMessagePump(log *slog.Logger, events <-chan domain.RawMessage, tracker Tracker, dispatch DispatchFunc) *MessagePump {
	return &MessagePump{log: log, events: events, tracker: tracker, dispatch: dispatch}
}

func (w *MessagePump) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping message pump")
			return nil
		case raw, ok := <-w.events:
			if !ok {
				w.log.Info("Transport events closed, stopping message pump")
				return nil
			}
			message, ok := domain.Classify(raw)
			if !ok {
				w.log.Debug("Unclassified message dropped", "id", raw.ID, "kind", raw.Kind, "from", raw.From)
				continue
			}
			w.spawn(context.WithoutCancel(ctx), raw.ID, message)
		}
	}
}

func (w *MessagePump) spawn(ctx context.Context, messageID string, message domain.Message) {
	done := w.tracker.Track()
	runID := uuid.NewString()
	go func() {
		defer done()
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("Dispatch panicked", "run", runID, "message", messageID, "panic", fmt.Sprint(r))
			}
		}()
		if err := w.dispatch(ctx, message); err != nil {
			w.log.Error("Command failed", "run", runID, "message", messageID, "error", err)
		}
	}()
}
