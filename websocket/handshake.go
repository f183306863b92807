package websocket

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WebSocketGUID is appended to the client key before hashing, per RFC 6455.
const WebSocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

const (
	HeaderUpgrade         = "Upgrade"
	HeaderConnection      = "Connection"
	HeaderSecWebSocketKey = "Sec-WebSocket-Key"
)

var (
	ErrMissingWebSocketKey = errors.New("missing Sec-WebSocket-Key header")
	ErrNotUpgradeRequest   = errors.New("request does not ask for a websocket upgrade")
)

// ComputeAcceptKey derives the Sec-WebSocket-Accept value for a client key.
func ComputeAcceptKey(key string) string {
	sum := sha1.Sum([]byte(key + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// HandshakeResponse returns the literal 101 response for the given key.
func HandshakeResponse(key string) []byte {
	var sb strings.Builder
	sb.WriteString("HTTP/1.1 101 Switching Protocols\r\n")
	sb.WriteString("Upgrade: websocket\r\n")
	sb.WriteString("Connection: Upgrade\r\n")
	sb.WriteString("Sec-WebSocket-Accept: " + ComputeAcceptKey(key) + "\r\n")
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// Negotiate answers an upgrade request on an already detached socket.
//
// When the request carries no Sec-WebSocket-Key the socket is closed
// without writing anything. Otherwise the 101 response is written
// synchronously, and the socket is ready for frame traffic on return.
func Negotiate(header http.Header, conn io.WriteCloser) error {
	key := strings.TrimSpace(header.Get(HeaderSecWebSocketKey))
	if key == "" {
		_ = conn.Close()
		return ErrMissingWebSocketKey
	}
	if _, err := conn.Write(HandshakeResponse(key)); err != nil {
		_ = conn.Close()
		return fmt.Errorf("write handshake response: %w", err)
	}
	return nil
}

// IsUpgradeRequest reports whether the request asks for a websocket upgrade.
func IsUpgradeRequest(header http.Header) bool {
	return headerContainsToken(header, HeaderUpgrade, "websocket")
}

// headerContainsToken checks a comma separated header for token, case-insensitive.
func headerContainsToken(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
