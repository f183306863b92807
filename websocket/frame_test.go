package websocket

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeText_Length_Boundaries(t *testing.T) {
	cases := []struct {
		name       string
		size       int
		headerSize int
		marker     byte
	}{
		{name: "125 bytes uses 7-bit length", size: 125, headerSize: 2, marker: 125},
		{name: "126 bytes uses 16-bit length", size: 126, headerSize: 4, marker: 126},
		{name: "65535 bytes still uses 16-bit length", size: 65535, headerSize: 4, marker: 126},
		{name: "65536 bytes uses 64-bit length", size: 65536, headerSize: 10, marker: 127},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			payload := bytes.Repeat([]byte("a"), tc.size)

			frame := EncodeText(payload)

			req.Len(frame, tc.headerSize+tc.size)
			req.Equal(byte(0x81), frame[0])
			req.Equal(tc.marker, frame[1])
			switch tc.headerSize {
			case 4:
				req.Equal(uint16(tc.size), binary.BigEndian.Uint16(frame[2:4]))
			case 10:
				req.Equal(uint64(tc.size), binary.BigEndian.Uint64(frame[2:10]))
			}
			req.Equal(payload, frame[tc.headerSize:])
		})
	}
}

func TestEncode_Never_Sets_Mask_Bit(t *testing.T) {
	req := require.New(t)
	for _, size := range []int{0, 1, 125, 126, 70000} {
		frame := Encode(OpcodeText, make([]byte, size))
		req.Zero(frame[1]&0x80, "size %d", size)
	}
}

func TestUnmask_Known_Vector(t *testing.T) {
	req := require.New(t)
	// RFC 6455 section 5.7, masked "Hello"
	key := [4]byte{0x37, 0xfa, 0x21, 0x3d}
	payload := []byte{0x7f, 0x9f, 0x4d, 0x51, 0x58}

	Unmask(payload, key)

	req.Equal([]byte("Hello"), payload)
}

func TestDecodeFrame_RFC_Masked_Hello(t *testing.T) {
	req := require.New(t)
	raw := []byte{0x81, 0x85, 0x37, 0xfa, 0x21, 0x3d, 0x7f, 0x9f, 0x4d, 0x51, 0x58}

	f, n, err := DecodeFrame(raw, 0)

	req.NoError(err)
	req.Equal(len(raw), n)
	req.True(f.Fin)
	req.True(f.Masked)
	req.Equal(OpcodeText, f.Opcode)
	req.Equal("Hello", string(f.Payload))
}

func TestDecodeFrame_Masked_Round_Trip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{0, 1, 5, 125, 126, 127, 1024, 65535, 65536, 70000} {
		req := require.New(t)
		payload := make([]byte, size)
		rng.Read(payload)
		var key [4]byte
		rng.Read(key[:])
		original := append([]byte(nil), payload...)

		raw := EncodeMasked(OpcodeText, payload, key)
		f, n, err := DecodeFrame(raw, 0)

		req.NoError(err)
		req.Equal(len(raw), n)
		req.Equal(original, f.Payload, "size %d", size)
		req.Equal(original, payload, "EncodeMasked must not modify its input")
		req.Equal(key, f.MaskKey)
	}
}

func TestDecodeFrame_Close_Opcode(t *testing.T) {
	req := require.New(t)
	raw := EncodeMasked(OpcodeClose, nil, [4]byte{1, 2, 3, 4})

	f, _, err := DecodeFrame(raw, 0)

	req.NoError(err)
	req.Equal(OpcodeClose, f.Opcode)
	req.Empty(f.Payload)
}

func TestDecodeFrame_Incomplete_Input(t *testing.T) {
	req := require.New(t)
	raw := EncodeMasked(OpcodeText, bytes.Repeat([]byte("x"), 300), [4]byte{9, 8, 7, 6})

	// Every strict prefix is reported as incomplete rather than as an error
	for i := 0; i < len(raw); i++ {
		_, n, err := DecodeFrame(raw[:i], 0)
		req.NoError(err)
		req.Zero(n, "prefix %d", i)
	}
}

func TestDecodeFrame_Payload_Too_Large(t *testing.T) {
	req := require.New(t)
	raw := EncodeMasked(OpcodeText, make([]byte, 2048), [4]byte{})

	_, _, err := DecodeFrame(raw, 1024)

	req.ErrorIs(err, ErrFrameTooLarge)
}

func TestOpcode_String(t *testing.T) {
	req := require.New(t)
	req.Equal("text", OpcodeText.String())
	req.Equal("close", OpcodeClose.String())
	req.Equal("unknown", Opcode(0x3).String())
}
