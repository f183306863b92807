// Package websocket implements the server side of a minimal RFC 6455 subset.
//
// It covers the opening handshake, unfragmented frame encoding, and frame
// decoding with client masking. Extensions, fragmentation and TLS are not
// supported.
//
// Server frames are never masked. Client frames are unmasked in place.
package websocket
