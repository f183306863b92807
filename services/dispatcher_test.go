package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	telemetry := mocks.NewMockITelemetryService(ctrl)
	conn := mocks.NewMockConn(ctrl)
	conn.EXPECT().ID().Return("conn-1").AnyTimes()
	dispatcher := NewDispatcher(slog.Default(), chat, telemetry)

	t.Run("chat message goes to chat service with the connection as author", func(t *testing.T) {
		req := require.New(t)
		msg, err := domain.NewMessage(domain.ChatMessageType, map[string]string{"author": "Alice", "content": "hi"})
		req.NoError(err)

		chat.EXPECT().Post(gomock.Any(), domain.PostChatCommand{AuthorID: "conn-1", Author: "Alice", Content: "hi"}).
			Return(domain.ChatMessage{}, nil)

		req.NoError(dispatcher.Handle(context.Background(), conn, msg))
	})

	t.Run("driver broadcast goes to telemetry", func(t *testing.T) {
		req := require.New(t)
		msg, err := domain.NewMessage(domain.DriverBroadcast, map[string]any{"driverId": "d-1", "lat": 1.5, "lng": 2.5})
		req.NoError(err)

		telemetry.EXPECT().Report(gomock.Any(), domain.LocationUpdate{DriverID: "d-1", Lat: 1.5, Lng: 2.5}).Return(nil)

		req.NoError(dispatcher.Handle(context.Background(), conn, msg))
	})

	t.Run("service errors are returned", func(t *testing.T) {
		req := require.New(t)
		msg, err := domain.NewMessage(domain.ChatMessageType, map[string]string{"author": "Alice", "content": "hi"})
		req.NoError(err)
		chat.EXPECT().Post(gomock.Any(), gomock.Any()).Return(domain.ChatMessage{}, errors.ErrContentTooLong)

		req.ErrorIs(dispatcher.Handle(context.Background(), conn, msg), errors.ErrContentTooLong)
	})

	t.Run("payload of the wrong shape is invalid", func(t *testing.T) {
		req := require.New(t)
		msg := domain.Message{Type: domain.DriverBroadcast, Payload: []byte(`"just a string"`)}

		req.ErrorIs(dispatcher.Handle(context.Background(), conn, msg), errors.ErrInvalidPayload)
	})

	t.Run("server-originated types are ignored", func(t *testing.T) {
		req := require.New(t)
		msg := domain.Message{Type: domain.OrderUpdated, Payload: []byte(`{}`)}

		req.NoError(dispatcher.Handle(context.Background(), conn, msg))
	})
}
