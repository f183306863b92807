package runtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/websocket"
)

// Gateway is the HTTP entry point of the socket layer. It detaches the
// TCP connection from net/http, negotiates the handshake, registers the
// connection and starts its session.
type Gateway struct {
	ctx      context.Context
	log      *slog.Logger
	registry contract.IRegistry
	session  *Session
	metrics  *observability.Metrics

	writeTimeout time.Duration

	// mu orders wg.Add against Wait: no session starts once draining began.
	mu       sync.Mutex
	draining bool
	wg       sync.WaitGroup
}

// NewGateway binds sessions to ctx: cancelling it closes every connection.
func NewGateway(
	ctx context.Context,
	log *slog.Logger,
	registry contract.IRegistry,
	session *Session,
	metrics *observability.Metrics,
	writeTimeout time.Duration,
) *Gateway {
	return &Gateway{
		ctx:          ctx,
		log:          log,
		registry:     registry,
		session:      session,
		metrics:      metrics,
		writeTimeout: writeTimeout,
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsUpgradeRequest(r.Header) {
		w.Header().Set(websocket.HeaderUpgrade, "websocket")
		http.Error(w, http.StatusText(http.StatusUpgradeRequired), http.StatusUpgradeRequired)
		return
	}

	hijacker, ok := w.(http.Hijacker)
	if !ok {
		g.log.Error("Response writer does not support hijacking")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	netConn, brw, err := hijacker.Hijack()
	if err != nil {
		g.log.Error("Hijack failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	// http.Server.Shutdown no longer tracks a hijacked connection.
	if !g.track() {
		g.metrics.Handshakes.WithLabelValues("rejected").Inc()
		g.log.Debug("Gateway is shutting down, connection dropped", "remote", r.RemoteAddr)
		_ = netConn.Close()
		return
	}

	// The HTTP server may have armed read/write deadlines.
	_ = netConn.SetDeadline(time.Time{})

	var buffered []byte
	if n := brw.Reader.Buffered(); n > 0 {
		peeked, _ := brw.Reader.Peek(n)
		buffered = append([]byte(nil), peeked...)
	}
	conn := NewConnection(netConn, buffered, g.writeTimeout)

	if err := websocket.Negotiate(r.Header, netConn); err != nil {
		g.wg.Done()
		g.metrics.Handshakes.WithLabelValues("rejected").Inc()
		g.log.Debug("Handshake rejected", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn.Open()
	g.registry.Register(conn)
	g.metrics.Handshakes.WithLabelValues("accepted").Inc()
	g.log.Info("Websocket connection opened", "conn_id", conn.ID(), "remote", conn.RemoteAddr())

	go func() {
		defer g.wg.Done()
		g.session.Serve(g.ctx, conn)
		g.log.Info("Websocket connection closed", "conn_id", conn.ID(), "duration", time.Since(conn.OpenedAt()))
	}()
}

// track reserves a slot for one upgrade. It fails once the gateway context
// is done or Wait has been called.
func (g *Gateway) track() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draining || g.ctx.Err() != nil {
		return false
	}
	g.wg.Add(1)
	return true
}

// Wait stops accepting upgrades and blocks until every session started by
// the gateway has returned.
func (g *Gateway) Wait() {
	g.mu.Lock()
	g.draining = true
	g.mu.Unlock()
	g.wg.Wait()
}
