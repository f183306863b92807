package websocket

import (
	"encoding/binary"
	"errors"
)

// Opcode identifies the purpose of a frame.
type Opcode byte

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

const (
	finBit  = 0x80
	maskBit = 0x80

	len16Marker = 126
	len64Marker = 127
)

// DefaultMaxPayload bounds a single inbound frame.
const DefaultMaxPayload = 16 << 20

var (
	ErrFrameTooLarge    = errors.New("frame payload exceeds maximum allowed size")
	ErrConnectionClosed = errors.New("connection closed")
)

func (o Opcode) String() string {
	switch o {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return "unknown"
	}
}

// Frame is one decoded wire unit. Payload is already unmasked.
type Frame struct {
	Fin     bool
	Opcode  Opcode
	Masked  bool
	MaskKey [4]byte
	Payload []byte
}

// EncodeText frames payload as a single unmasked text frame.
func EncodeText(payload []byte) []byte {
	return Encode(OpcodeText, payload)
}

// Encode frames payload as a single final, unmasked frame.
func Encode(op Opcode, payload []byte) []byte {
	buf := appendHeader(make([]byte, 0, headerLen(len(payload))+len(payload)), op, len(payload), false)
	return append(buf, payload...)
}

// EncodeMasked frames payload the way a client must, masked with key.
// payload is not modified.
func EncodeMasked(op Opcode, payload []byte, key [4]byte) []byte {
	buf := appendHeader(make([]byte, 0, headerLen(len(payload))+4+len(payload)), op, len(payload), true)
	buf = append(buf, key[:]...)
	start := len(buf)
	buf = append(buf, payload...)
	Unmask(buf[start:], key)
	return buf
}

func headerLen(n int) int {
	switch {
	case n < len16Marker:
		return 2
	case n <= 0xFFFF:
		return 4
	default:
		return 10
	}
}

func appendHeader(dst []byte, op Opcode, n int, masked bool) []byte {
	var mask byte
	if masked {
		mask = maskBit
	}
	dst = append(dst, finBit|byte(op&0x0F))
	switch {
	case n < len16Marker:
		dst = append(dst, mask|byte(n))
	case n <= 0xFFFF:
		dst = append(dst, mask|len16Marker)
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, mask|len64Marker)
		dst = binary.BigEndian.AppendUint64(dst, uint64(n))
	}
	return dst
}

// Unmask XORs buf with key in place. Masking is its own inverse.
func Unmask(buf []byte, key [4]byte) {
	for i := range buf {
		buf[i] ^= key[i%4]
	}
}

// DecodeFrame parses one frame from the start of raw.
//
// It returns the frame and the number of bytes consumed. When raw holds
// only part of a frame it returns a zero consumed count and a nil error,
// so the caller can wait for more input. The payload is copied out of raw
// and unmasked.
func DecodeFrame(raw []byte, maxPayload int) (Frame, int, error) {
	if len(raw) < 2 {
		return Frame{}, 0, nil
	}
	f := Frame{
		Fin:    raw[0]&finBit != 0,
		Opcode: Opcode(raw[0] & 0x0F),
		Masked: raw[1]&maskBit != 0,
	}
	length := uint64(raw[1] & 0x7F)
	offset := 2

	switch length {
	case len16Marker:
		if len(raw) < offset+2 {
			return Frame{}, 0, nil
		}
		length = uint64(binary.BigEndian.Uint16(raw[offset:]))
		offset += 2
	case len64Marker:
		if len(raw) < offset+8 {
			return Frame{}, 0, nil
		}
		length = binary.BigEndian.Uint64(raw[offset:])
		offset += 8
	}

	if maxPayload > 0 && length > uint64(maxPayload) {
		return Frame{}, 0, ErrFrameTooLarge
	}

	if f.Masked {
		if len(raw) < offset+4 {
			return Frame{}, 0, nil
		}
		copy(f.MaskKey[:], raw[offset:offset+4])
		offset += 4
	}

	if uint64(len(raw)-offset) < length {
		return Frame{}, 0, nil
	}
	end := offset + int(length)

	f.Payload = make([]byte, length)
	copy(f.Payload, raw[offset:end])
	if f.Masked {
		Unmask(f.Payload, f.MaskKey)
	}
	return f, end, nil
}
