package websocket

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var testKey = [4]byte{0xde, 0xad, 0xbe, 0xef}

func TestFrameReader_Single_Frame_Per_Read(t *testing.T) {
	req := require.New(t)
	reader := NewFrameReader(0)

	frames, err := reader.Feed(EncodeMasked(OpcodeText, []byte(`{"type":"CHAT_MESSAGE"}`), testKey))

	req.NoError(err)
	req.Len(frames, 1)
	req.Equal(`{"type":"CHAT_MESSAGE"}`, string(frames[0].Payload))
	req.Zero(reader.Buffered())
}

func TestFrameReader_Frame_Split_Across_Reads(t *testing.T) {
	req := require.New(t)
	reader := NewFrameReader(0)
	payload := bytes.Repeat([]byte("z"), 1000)
	raw := EncodeMasked(OpcodeText, payload, testKey)

	// Given the frame arrives in three chunks
	frames, err := reader.Feed(raw[:1])
	req.NoError(err)
	req.Empty(frames)

	frames, err = reader.Feed(raw[1:500])
	req.NoError(err)
	req.Empty(frames)
	req.Equal(500, reader.Buffered())

	// When the last chunk arrives
	frames, err = reader.Feed(raw[500:])

	// Then exactly one complete frame is produced
	req.NoError(err)
	req.Len(frames, 1)
	req.Equal(payload, frames[0].Payload)
	req.Zero(reader.Buffered())
}

func TestFrameReader_Coalesced_Frames(t *testing.T) {
	req := require.New(t)
	reader := NewFrameReader(0)

	var raw []byte
	raw = append(raw, EncodeMasked(OpcodeText, []byte("one"), testKey)...)
	raw = append(raw, EncodeMasked(OpcodeText, []byte("two"), testKey)...)
	third := EncodeMasked(OpcodeClose, nil, testKey)
	raw = append(raw, third[:1]...)

	frames, err := reader.Feed(raw)

	req.NoError(err)
	req.Len(frames, 2)
	req.Equal("one", string(frames[0].Payload))
	req.Equal("two", string(frames[1].Payload))
	req.Equal(1, reader.Buffered())

	frames, err = reader.Feed(third[1:])
	req.NoError(err)
	req.Len(frames, 1)
	req.Equal(OpcodeClose, frames[0].Opcode)
}

func TestFrameReader_Oversized_Frame(t *testing.T) {
	req := require.New(t)
	reader := NewFrameReader(16)

	_, err := reader.Feed(EncodeMasked(OpcodeText, make([]byte, 64), testKey))

	req.ErrorIs(err, ErrFrameTooLarge)
	req.Zero(reader.Buffered())
}
