// Package frame implements the checksummed, block-confined framing layer:
// it splits arbitrary payloads into frames that never cross a 32 KiB block
// boundary, each protected by a CRC-32 covering the frame type and payload.
package frame

import (
	"errors"

	"github.com/quickwit-oss/mrecordlog/internal/checksum"
	"github.com/quickwit-oss/mrecordlog/internal/encoding"
)

// BlockSize is the fixed physical block size of the rolling file layer.
const BlockSize = 32768

// HeaderLen is the size in bytes of a frame header: u32 CRC + u16 len + u8 type.
const HeaderLen = 4 + 2 + 1

// Type identifies which part of a record a frame carries.
type Type uint8

const (
	// Full indicates a frame that is the entire record.
	Full Type = 1
	// First indicates the first frame of a record spanning multiple frames.
	First Type = 2
	// Middle indicates an interior frame of a multi-frame record.
	Middle Type = 3
	// Last indicates the final frame of a multi-frame record.
	Last Type = 4
)

// IsFirstOfRecord reports whether a frame of this type starts a record.
func (t Type) IsFirstOfRecord() bool {
	return t == Full || t == First
}

// IsLastOfRecord reports whether a frame of this type ends a record.
func (t Type) IsLastOfRecord() bool {
	return t == Full || t == Last
}

func (t Type) valid() bool {
	return t >= Full && t <= Last
}

// ErrCorruption is returned when a frame header or checksum fails to validate.
var ErrCorruption = errors.New("frame: corruption detected")

// ErrNotAvailable is returned when the next frame header is all-zero,
// meaning no frame was ever written at this position.
var ErrNotAvailable = errors.New("frame: not available")

// Header is the 7-byte on-disk frame header.
type Header struct {
	Checksum uint32
	Len      uint16
	Type     Type
}

// ForPayload builds the header for a frame of the given type and payload.
// It panics if payload does not fit in a block, matching the writer's own
// precondition that callers never ask for a too-large frame.
func ForPayload(frameType Type, payload []byte) Header {
	if len(payload) >= BlockSize {
		panic("frame: payload too large for a single block")
	}
	return Header{
		Checksum: checksum.FrameChecksum(byte(frameType), payload),
		Len:      uint16(len(payload)),
		Type:     frameType,
	}
}

// Check reports whether payload matches the header's checksum.
func (h Header) Check(payload []byte) bool {
	return checksum.FrameChecksum(byte(h.Type), payload) == h.Checksum
}

// Serialize writes the header into dst, which must be exactly HeaderLen bytes.
func (h Header) Serialize(dst []byte) {
	if len(dst) != HeaderLen {
		panic("frame: Serialize requires a HeaderLen-sized buffer")
	}
	encoding.PutUint32(dst[0:4], h.Checksum)
	encoding.PutUint16(dst[4:6], h.Len)
	dst[6] = byte(h.Type)
}

// Deserialize parses a HeaderLen-sized buffer into a Header. It returns
// false if the frame type byte is not one of the four known values.
func Deserialize(src []byte) (Header, bool) {
	if len(src) != HeaderLen {
		panic("frame: Deserialize requires a HeaderLen-sized buffer")
	}
	t := Type(src[6])
	if !t.valid() {
		return Header{}, false
	}
	return Header{
		Checksum: encoding.Uint32(src[0:4]),
		Len:      encoding.Uint16(src[4:6]),
		Type:     t,
	}, true
}
