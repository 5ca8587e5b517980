package frame

// BlockWriter is the block-aligned write contract the rolling file layer
// offers the frame layer: writes must fit the remaining space in the
// current block (the caller enforces this via MaxWritableFrameLength).
type BlockWriter interface {
	// Write writes p, which must fit within NumBytesRemainingInBlock().
	Write(p []byte) (int, error)
	// NumBytesRemainingInBlock returns the space left before the writer
	// must roll to a new block.
	NumBytesRemainingInBlock() int
	// Flush drains the writer's buffers; if fsync is true it additionally
	// fsyncs the underlying file (and, where supported, its directory).
	Flush(fsync bool) error
}

// Writer splits payloads into block-confined, checksummed frames.
type Writer struct {
	dest   BlockWriter
	buffer [BlockSize]byte
}

// NewWriter creates a frame Writer over dest.
func NewWriter(dest BlockWriter) *Writer {
	return &Writer{dest: dest}
}

// WriteFrame writes a single frame. payload must be no longer than
// MaxWritableFrameLength(); callers (the record layer) split records into
// frames sized accordingly.
func (w *Writer) WriteFrame(frameType Type, payload []byte) error {
	remaining := w.dest.NumBytesRemainingInBlock()
	if remaining < HeaderLen {
		var zeros [HeaderLen]byte
		if _, err := w.dest.Write(zeros[:remaining]); err != nil {
			return err
		}
	}
	recordLen := HeaderLen + len(payload)
	header := ForPayload(frameType, payload)
	header.Serialize(w.buffer[:HeaderLen])
	copy(w.buffer[HeaderLen:recordLen], payload)
	_, err := w.dest.Write(w.buffer[:recordLen])
	return err
}

// Flush flushes the underlying block writer.
func (w *Writer) Flush(fsync bool) error {
	return w.dest.Flush(fsync)
}

// MaxWritableFrameLength returns the largest payload that fits in a single
// frame without needing to roll to a new block first.
func (w *Writer) MaxWritableFrameLength() int {
	remaining := w.dest.NumBytesRemainingInBlock()
	if remaining >= HeaderLen {
		return remaining - HeaderLen
	}
	return BlockSize - HeaderLen
}
