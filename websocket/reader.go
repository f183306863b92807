package websocket

// FrameReader accumulates raw socket reads and yields complete frames.
//
// A frame split across several reads is held until it is complete, and a
// read carrying several frames yields all of them in order.
type FrameReader struct {
	pending    []byte
	maxPayload int
}

func NewFrameReader(maxPayload int) *FrameReader {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &FrameReader{maxPayload: maxPayload}
}

// Feed appends chunk and returns every frame that is now complete.
// A non-nil error means the stream can no longer be trusted.
func (r *FrameReader) Feed(chunk []byte) ([]Frame, error) {
	r.pending = append(r.pending, chunk...)

	var frames []Frame
	for {
		f, n, err := DecodeFrame(r.pending, r.maxPayload)
		if err != nil {
			r.pending = nil
			return frames, err
		}
		if n == 0 {
			break
		}
		frames = append(frames, f)
		r.pending = r.pending[n:]
	}

	if len(r.pending) == 0 {
		r.pending = nil
	}
	return frames, nil
}

// Buffered returns the number of bytes held for an incomplete frame.
func (r *FrameReader) Buffered() int {
	return len(r.pending)
}
