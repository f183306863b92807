//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

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

// Conn is a broadcastable transport: one upgraded client socket.
// Write receives complete encoded frames.
type Conn interface {
	ID() string
	Write(frame []byte) (int, error)
	Close() error
}

// IRegistry tracks open connections and fans messages out to them.
type IRegistry interface {
	Register(conn Conn)
	Deregister(conn Conn)
	Broadcast(msg domain.Message) error
	Len() int
}

// Publisher hands a message to whatever delivers it to connected peers.
type Publisher interface {
	Publish(ctx context.Context, msg domain.Message) error
}

// MessageHandler receives every Application Message decoded from a socket.
type MessageHandler interface {
	Handle(ctx context.Context, from Conn, msg domain.Message) error
}
