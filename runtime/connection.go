package runtime

import (
	"bytes"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/websocket"

	"github.com/google/uuid"
)

// State is the lifecycle of one upgraded client.
// HANDSHAKING -> OPEN -> CLOSED, CLOSED is terminal.
type State int32

const (
	StateHandshaking State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateHandshaking:
		return "HANDSHAKING"
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Connection wraps a hijacked socket. Writes are serialized so that
// frames from concurrent broadcasts never interleave on the wire.
type Connection struct {
	id       string
	conn     net.Conn
	reader   io.Reader
	state    atomic.Int32
	writeMu  sync.Mutex
	once     sync.Once
	openedAt time.Time
	// writeTimeout bounds every frame write; zero waits forever.
	writeTimeout time.Duration
}

// NewConnection wraps conn. buffered holds bytes the HTTP server already
// read past the request headers; they are replayed before the socket.
func NewConnection(conn net.Conn, buffered []byte, writeTimeout time.Duration) *Connection {
	c := &Connection{
		id:           uuid.NewString(),
		conn:         conn,
		reader:       conn,
		writeTimeout: writeTimeout,
	}
	if len(buffered) > 0 {
		c.reader = io.MultiReader(bytes.NewReader(buffered), conn)
	}
	return c
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func (c *Connection) State() State { return State(c.state.Load()) }

func (c *Connection) OpenedAt() time.Time { return c.openedAt }

// Open moves the connection out of HANDSHAKING. It reports false when the
// connection was already opened or closed.
func (c *Connection) Open() bool {
	if c.state.CompareAndSwap(int32(StateHandshaking), int32(StateOpen)) {
		c.openedAt = time.Now()
		return true
	}
	return false
}

func (c *Connection) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

// Write sends one complete encoded frame. A failed or timed out write
// closes the connection, after which its session deregisters it.
func (c *Connection) Write(frame []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.State() == StateClosed {
		return 0, websocket.ErrConnectionClosed
	}
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			_ = c.Close()
			return 0, err
		}
	}
	n, err := c.conn.Write(frame)
	if err != nil {
		_ = c.Close()
	}
	return n, err
}

// Close is idempotent.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		c.state.Store(int32(StateClosed))
		err = c.conn.Close()
	})
	return err
}
