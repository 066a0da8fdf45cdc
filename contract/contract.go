//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chatbot/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// GroupRoleLookup asks the messaging network whether a participant
// administers a group. It costs a network round-trip.
type GroupRoleLookup interface {
	FetchGroupRole(ctx context.Context, chat, participant domain.Address) (domain.GroupRole, error)
}

// Connection is what command handlers get to talk back to the network.
type Connection interface {
	GroupRoleLookup
	Reply(ctx context.Context, message domain.Message, text string) error
}

// Transport is the live connection to the messaging network.
// Events is closed when the connection ends.
type Transport interface {
	Connection
	Connect(ctx context.Context) error
	Events() <-chan domain.RawMessage
	IsConnected() bool
	Close() error
}

// SessionStore is the durable store backing the session credential set,
// addressed by logical collection name.
type SessionStore interface {
	Drop(ctx context.Context, collection string) error
	InsertMany(ctx context.Context, collection string, records []domain.SessionRecord) error
	Find(ctx context.Context, collection string) ([]domain.SessionRecord, error)
	Close(ctx context.Context) error
}
