package runtime

import (
	"chatbot/commands"
	"chatbot/contract"
	"chatbot/domain"
	"chatbot/observability"
	"chatbot/permission"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Outcome tells how far a message went through the pipeline.
type Outcome string

const (
	OutcomeRejectedShutdown Outcome = "shutdown"
	OutcomeNotText          Outcome = "not_text"
	OutcomeNoPrefix         Outcome = "no_prefix"
	OutcomeEmptyKey         Outcome = "empty_key"
	OutcomeUnknownCommand   Outcome = "unknown_command"
	OutcomeKindRejected     Outcome = "kind_rejected"
	OutcomeForbidden        Outcome = "forbidden"
	OutcomeExecuted         Outcome = "executed"
)

// Dispatcher runs the per-message pipeline from a classified message to a
// command handler. Every stage short-circuits silently; the sender never
// learns why a message was ignored.
//
// Dispatch is safe for concurrent use: it only reads the registry and the
// accept flag.
type Dispatcher struct {
	log      *slog.Logger
	app      *AppContext
	registry *Registry
	conn     contract.Connection
	lookup   contract.GroupRoleLookup
	owner    domain.Address
	prefix   string
	metrics  *observability.Metrics
}

func NewDispatcher(log *slog.Logger, app *AppContext, registry *Registry, conn contract.Connection,
	lookup contract.GroupRoleLookup, owner domain.Address, prefix string, metrics *observability.Metrics) *Dispatcher {
	if lookup == nil {
		log.Warn("No group role lookup configured, group admins are treated as everyone")
	}
	return &Dispatcher{
		log:      log,
		app:      app,
		registry: registry,
		conn:     conn,
		lookup:   lookup,
		owner:    owner,
		prefix:   prefix,
		metrics:  metrics,
	}
}

// Dispatch processes one message. A handler error is returned as is,
// wrapped with the command key.
func (d *Dispatcher) Dispatch(ctx context.Context, message domain.Message) (Outcome, error) {
	outcome, err := d.dispatch(ctx, message)
	d.metrics.IncrementOutcome(string(outcome))
	return outcome, err
}

func (d *Dispatcher) dispatch(ctx context.Context, message domain.Message) (Outcome, error) {
	if !d.app.Accepting() {
		return OutcomeRejectedShutdown, nil
	}

	var text string
	switch m := message.(type) {
	case domain.TextMessage:
		text = m.Text
	default:
		return OutcomeNotText, nil
	}

	if !strings.HasPrefix(text, d.prefix) {
		return OutcomeNoPrefix, nil
	}

	key, args := extract(strings.TrimPrefix(text, d.prefix))
	if key == "" {
		return OutcomeEmptyKey, nil
	}

	cmd, ok := d.registry.Lookup(key)
	if !ok {
		d.log.Debug("Unknown command", "key", key, "author", message.Author().String())
		return OutcomeUnknownCommand, nil
	}

	kind := message.Kind()
	if !cmd.Accepts(kind) {
		return OutcomeKindRejected, nil
	}

	chatKind := domain.ChatKindOf(message)
	role, err := permission.ResolveSenderRole(ctx, message, d.owner, d.lookup)
	if err != nil {
		d.log.Warn("Sender role lookup failed", "error", err)
	}
	if !permission.Authorize(cmd, chatKind, role) {
		d.log.Debug("Insufficient role",
			"key", key, "author", message.Author().String(), "role", role.String(),
			"required", cmd.Permissions.For(chatKind).String(), "chat", chatKind.String())
		return OutcomeForbidden, nil
	}

	return OutcomeExecuted, d.execute(ctx, cmd, message, kind, args)
}

func (d *Dispatcher) execute(ctx context.Context, cmd commands.Command, message domain.Message, kind domain.ContentKind, args []string) error {
	d.log.Info("Executing command", "key", cmd.Key, "author", message.Author().String(), "chat", message.Chat().String())
	start := time.Now()
	err := cmd.Handler(ctx, d.conn, message, kind, args)
	d.metrics.ObserveHandler(cmd.Key, time.Since(start), err != nil)
	if err != nil {
		return fmt.Errorf("command %q: %w", cmd.Key, err)
	}
	return nil
}

// extract splits on single spaces, verbatim: repeated separators produce
// empty arguments.
func extract(rest string) (string, []string) {
	tokens := strings.Split(rest, " ")
	return tokens[0], tokens[1:]
}
