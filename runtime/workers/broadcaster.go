package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
)

// Broadcaster decouples services from socket writes: Publish enqueues,
// Run drains the queue into the registry. A full queue rejects the message
// instead of blocking the caller.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.IRegistry
	queue    chan domain.Message
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry, bufferSize int) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Broadcaster{log: log, registry: registry, queue: make(chan domain.Message, bufferSize)}
}

func (b *Broadcaster) Publish(ctx context.Context, msg domain.Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.queue <- msg:
		return nil
	default:
		return fmt.Errorf("broadcast queue full, dropping %s", msg.Type)
	}
}

func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			b.log.Debug("Context done, stopping broadcaster")
			return nil
		case msg := <-b.queue:
			if err := b.registry.Broadcast(msg); err != nil {
				b.log.Warn("Broadcast failed", "type", msg.Type, "error", err)
			}
		}
	}
}
