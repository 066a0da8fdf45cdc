// Package commands defines the command descriptor every leaf handler
// exports and the environment handlers share.
package commands

import (
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"time"

	"github.com/samber/lo"
)

// Handler executes a command. Returned errors propagate to the dispatcher's caller.
type Handler func(ctx context.Context, conn contract.Connection, message domain.Message, kind domain.ContentKind, args []string) error

// Command is an immutable descriptor pairing an invocation key with its
// requirements and its handler.
type Command struct {
	Key         string
	Description string
	Kinds       []domain.ContentKind
	Permissions domain.Permissions
	Handler     Handler
}

// Accepts reports whether the command can be invoked by a message of this kind.
func (c Command) Accepts(kind domain.ContentKind) bool {
	return lo.Contains(c.Kinds, kind)
}

// Entry registers a command under a slash separated path mirroring the
// command tree, e.g. "other/help". The first directory is the category.
type Entry struct {
	Path    string
	Command Command
}

// Directory is the read-only view of the loaded commands.
type Directory interface {
	Categories() []string
	ByCategory(category string) []Command
	Len() int
}

// Env carries what handlers need besides the connection and the message.
type Env struct {
	Prefix    string
	SourceURL string
	StartedAt time.Time

	directory Directory
}

func NewEnv(prefix, sourceURL string, startedAt time.Time) *Env {
	return &Env{Prefix: prefix, SourceURL: sourceURL, StartedAt: startedAt}
}

// Bind attaches the loaded registry. It is called once, right after loading.
func (e *Env) Bind(directory Directory) {
	e.directory = directory
}

func (e *Env) Directory() Directory {
	return e.directory
}
