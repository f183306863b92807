package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/websocket"
)

// Registry is the set of open connections, keyed by connection ID.
// A connection is present if and only if it is open.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]contract.Conn
	log     *slog.Logger
	metrics *observability.Metrics
}

func NewRegistry(log *slog.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		conns:   make(map[string]contract.Conn),
		log:     log,
		metrics: metrics,
	}
}

// Register adds conn to the live set. Registering the same connection
// twice keeps a single entry, so it is never delivered to twice.
func (r *Registry) Register(conn contract.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn.ID()]; ok {
		return
	}
	r.conns[conn.ID()] = conn
	r.metrics.ActiveConnections.Set(float64(len(r.conns)))
	r.log.Debug("Connection registered", "conn_id", conn.ID(), "connections", len(r.conns))
}

// Deregister removes conn. Removing an absent connection is a no-op.
func (r *Registry) Deregister(conn contract.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn.ID()]; !ok {
		return
	}
	delete(r.conns, conn.ID())
	r.metrics.ActiveConnections.Set(float64(len(r.conns)))
	r.log.Debug("Connection deregistered", "conn_id", conn.ID(), "connections", len(r.conns))
}

// Broadcast encodes msg once and writes the same frame to every open
// connection. A failed write is logged and skipped; the failing
// connection is left for its own session to remove.
func (r *Registry) Broadcast(msg domain.Message) error {
	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	frame := websocket.EncodeText(data)

	delivered := 0
	for _, conn := range r.snapshot() {
		if _, err := conn.Write(frame); err != nil {
			r.metrics.BroadcastFailures.Inc()
			r.log.Warn("Broadcast write failed", "conn_id", conn.ID(), "type", msg.Type, "error", err)
			continue
		}
		delivered++
	}
	r.metrics.Broadcasts.Inc()
	r.metrics.Frames.WithLabelValues(websocket.OpcodeText.String(), "out").Add(float64(delivered))
	r.log.Debug("Message broadcast", "type", msg.Type, "delivered", delivered, "bytes", len(frame))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) Contains(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[connID]
	return ok
}

// snapshot copies the live set so writes happen outside the lock.
func (r *Registry) snapshot() []contract.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]contract.Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}
