package runtime

import (
	"chatbot/contract"
	"chatbot/session"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const sessionIOTimeout = 30 * time.Second

// Bot owns the process lifecycle: restore the session, connect, supervise
// the workers, then tear everything down in a fixed order.
type Bot struct {
	log          *slog.Logger
	app          *AppContext
	transport    contract.Transport
	gateway      *session.Gateway
	store        contract.SessionStore
	supervisor   contract.ISupervisor
	authDir      string
	skipDownload bool
	supervised   chan struct{}
}

func NewBot(log *slog.Logger, app *AppContext, transport contract.Transport, gateway *session.Gateway,
	store contract.SessionStore, supervisor contract.ISupervisor, authDir string, skipDownload bool) *Bot {
	return &Bot{
		log:          log,
		app:          app,
		transport:    transport,
		gateway:      gateway,
		store:        store,
		supervisor:   supervisor,
		authDir:      authDir,
		skipDownload: skipDownload,
	}
}

// Start downloads the session, connects the transport and launches the
// supervised workers. A download failure is fatal: connecting without the
// stored session would force a new login and the next upload would then
// overwrite the good one.
func (b *Bot) Start(ctx context.Context) error {
	if b.skipDownload {
		b.log.Info("Session download skipped, the session will not be uploaded either")
	} else if err := b.gateway.Download(ctx, b.authDir); err != nil {
		return fmt.Errorf("download session: %w", err)
	}

	if err := b.transport.Connect(ctx); err != nil {
		return fmt.Errorf("connect transport: %w", err)
	}

	// Workers outlive the signal context, Shutdown stops them last.
	supervisedCtx := context.WithoutCancel(ctx)
	b.supervised = make(chan struct{})
	go func() {
		defer close(b.supervised)
		b.supervisor.Run(supervisedCtx)
	}()
	b.log.Info("Bot started", "auth_dir", b.authDir)
	return nil
}

// Shutdown stops accepting messages, waits up to grace for running commands,
// then closes the transport, uploads the session and closes the store.
// Every step is best effort: failures are logged and the next step runs.
func (b *Bot) Shutdown(grace time.Duration) {
	if !b.app.StopAccepting() {
		b.log.Debug("Shutdown already in progress")
		return
	}
	b.log.Info("Shutting down", "grace", grace)

	if !b.app.WaitInFlight(grace) {
		b.log.Warn("Grace window elapsed with commands still running", "grace", grace)
	}

	if err := b.transport.Close(); err != nil {
		b.log.Warn("Transport close failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionIOTimeout)
	defer cancel()

	if b.gateway.DownloadCompleted() {
		if err := b.gateway.Upload(ctx, b.authDir); err != nil {
			b.log.Error("Session upload failed", "error", err)
		}
	} else {
		b.log.Info("No completed session download, upload skipped")
	}

	if err := b.store.Close(ctx); err != nil {
		b.log.Warn("Session store close failed", "error", err)
	}

	b.supervisor.Stop()
	if b.supervised != nil {
		<-b.supervised
	}
	b.log.Info("Shutdown complete")
}
