package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/websocket"
)

// Stream is an open connection the session can read frames from.
type Stream interface {
	contract.Conn
	io.Reader
}

// Session drives the inbound side of every connection: it decodes frames,
// answers control frames and forwards Application Messages to the handler.
type Session struct {
	log            *slog.Logger
	registry       contract.IRegistry
	handler        contract.MessageHandler
	metrics        *observability.Metrics
	readBufferSize int
	maxPayload     int
}

func NewSession(
	log *slog.Logger,
	registry contract.IRegistry,
	handler contract.MessageHandler,
	metrics *observability.Metrics,
	readBufferSize, maxPayload int,
) *Session {
	if readBufferSize <= 0 {
		readBufferSize = 4096
	}
	return &Session{
		log:            log,
		registry:       registry,
		handler:        handler,
		metrics:        metrics,
		readBufferSize: readBufferSize,
		maxPayload:     maxPayload,
	}
}

// Serve reads conn until a close frame, an I/O error or ctx cancellation.
// On return the connection is deregistered and closed.
func (s *Session) Serve(ctx context.Context, conn Stream) {
	defer s.terminate(conn)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	reader := websocket.NewFrameReader(s.maxPayload)
	buf := make([]byte, s.readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			frames, ferr := reader.Feed(buf[:n])
			for _, f := range frames {
				if !s.handleFrame(ctx, conn, f) {
					return
				}
			}
			if ferr != nil {
				s.log.Warn("Dropping connection on malformed stream", "conn_id", conn.ID(), "error", ferr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				s.log.Debug("Connection read failed", "conn_id", conn.ID(), "error", err)
			}
			return
		}
	}
}

// handleFrame reports whether the session should keep reading.
func (s *Session) handleFrame(ctx context.Context, conn Stream, f websocket.Frame) bool {
	s.metrics.Frames.WithLabelValues(f.Opcode.String(), "in").Inc()

	switch f.Opcode {
	case websocket.OpcodeClose:
		s.log.Debug("Close frame received", "conn_id", conn.ID())
		return false
	case websocket.OpcodePing:
		if _, err := conn.Write(websocket.Encode(websocket.OpcodePong, f.Payload)); err != nil {
			s.log.Debug("Pong write failed", "conn_id", conn.ID(), "error", err)
			return false
		}
		return true
	case websocket.OpcodePong:
		return true
	}

	msg, err := domain.DecodeMessage(f.Payload)
	if err != nil {
		s.metrics.DecodeFailures.Inc()
		s.log.Warn("Discarding malformed message", "conn_id", conn.ID(), "error", err)
		return true
	}

	if err := s.handler.Handle(ctx, conn, msg); err != nil {
		s.log.Warn("Message handling failed", "conn_id", conn.ID(), "type", msg.Type, "error", err)
	}
	return true
}

func (s *Session) terminate(conn Stream) {
	s.registry.Deregister(conn)
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Debug("Connection close failed", "conn_id", conn.ID(), "error", err)
	}
}
