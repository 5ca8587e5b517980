package record

import (
	"io"

	"github.com/quickwit-oss/mrecordlog/internal/frame"
)

// Reader reassembles whole records out of a frame.Reader's frame stream.
// Grounded on original_source/src/recordlog/reader.rs.
//
// On frame.ErrCorruption, Reader discards whatever partial record it had
// been assembling and returns the error to the caller; the underlying
// frame.Reader has already discarded the rest of the corrupt block, so a
// subsequent call to Next resumes assembly at the next block's first
// frame. This lets the recovery loop log a warning and keep replaying,
// per the log's crash-tolerant recovery behavior.
type Reader struct {
	fr           *frame.Reader
	buf          []byte
	withinRecord bool
}

// NewReader creates a Reader over fr.
func NewReader(fr *frame.Reader) *Reader {
	return &Reader{fr: fr}
}

// Next returns the next whole record's bytes, valid until the next call
// to Next. It returns io.EOF once the block stream is exhausted with no
// partial record pending.
func (r *Reader) Next() ([]byte, error) {
	for {
		ft, payload, err := r.fr.ReadFrame()
		if err != nil {
			r.withinRecord = false
			if err == frame.ErrNotAvailable {
				return nil, io.EOF
			}
			return nil, err
		}
		if ft.IsFirstOfRecord() {
			r.buf = r.buf[:0]
			r.withinRecord = true
		}
		if r.withinRecord {
			r.buf = append(r.buf, payload...)
			if ft.IsLastOfRecord() {
				r.withinRecord = false
				return r.buf, nil
			}
		}
	}
}
