package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
)

// Dispatcher routes Application Messages received on sockets to the
// services. Errors are returned to the session, which logs them and keeps
// the connection open.
type Dispatcher struct {
	log       *slog.Logger
	chat      IChatService
	telemetry ITelemetryService
}

func NewDispatcher(log *slog.Logger, chat IChatService, telemetry ITelemetryService) *Dispatcher {
	return &Dispatcher{log: log, chat: chat, telemetry: telemetry}
}

var _ contract.MessageHandler = (*Dispatcher)(nil)

func (d *Dispatcher) Handle(ctx context.Context, from contract.Conn, msg domain.Message) error {
	switch msg.Type {
	case domain.ChatMessageType:
		var cmd domain.PostChatCommand
		if err := msg.Unmarshal(&cmd); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		// Sockets are anonymous, the connection stands for the author.
		if cmd.AuthorID == "" {
			cmd.AuthorID = from.ID()
		}
		_, err := d.chat.Post(ctx, cmd)
		return err

	case domain.DriverBroadcast:
		var update domain.LocationUpdate
		if err := msg.Unmarshal(&update); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		return d.telemetry.Report(ctx, update)

	default:
		d.log.Debug("Ignoring message", "conn_id", from.ID(), "type", msg.Type)
		return nil
	}
}
