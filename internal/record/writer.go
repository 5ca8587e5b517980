package record

import "github.com/quickwit-oss/mrecordlog/internal/frame"

// Writer splits an encoded record's bytes across as many frames as
// needed and reassembles them on the other side via Reader. Grounded on
// original_source/src/recordlog/writer.rs's frame-splitting loop.
type Writer struct {
	fw *frame.Writer
}

// NewWriter creates a Writer over fw.
func NewWriter(fw *frame.Writer) *Writer {
	return &Writer{fw: fw}
}

// WriteRecord writes data as one or more frames. Even an empty record
// (zero-length data) emits a single Full frame, so an empty record still
// has a recoverable on-disk presence.
func (w *Writer) WriteRecord(data []byte) error {
	left := data
	first := true
	for {
		max := w.fw.MaxWritableFrameLength()
		n := len(left)
		if n > max {
			n = max
		}
		last := n == len(left)

		var ft frame.Type
		switch {
		case first && last:
			ft = frame.Full
		case first:
			ft = frame.First
		case last:
			ft = frame.Last
		default:
			ft = frame.Middle
		}
		if err := w.fw.WriteFrame(ft, left[:n]); err != nil {
			return err
		}
		left = left[n:]
		first = false
		if len(left) == 0 {
			return nil
		}
	}
}

// Flush flushes the underlying frame writer.
func (w *Writer) Flush(fsync bool) error {
	return w.fw.Flush(fsync)
}
