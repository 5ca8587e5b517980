// Package encoding provides the fixed-width little-endian integer helpers
// used by the wire format. The format has no variable-length integers;
// every field is a fixed-width u8/u16/u32/u64.
package encoding

import "encoding/binary"

// PutUint16 writes v into dst[0:2] as little-endian.
func PutUint16(dst []byte, v uint16) {
	binary.LittleEndian.PutUint16(dst, v)
}

// Uint16 reads a little-endian uint16 from src[0:2].
func Uint16(src []byte) uint16 {
	return binary.LittleEndian.Uint16(src)
}

// PutUint32 writes v into dst[0:4] as little-endian.
func PutUint32(dst []byte, v uint32) {
	binary.LittleEndian.PutUint32(dst, v)
}

// Uint32 reads a little-endian uint32 from src[0:4].
func Uint32(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}

// PutUint64 writes v into dst[0:8] as little-endian.
func PutUint64(dst []byte, v uint64) {
	binary.LittleEndian.PutUint64(dst, v)
}

// Uint64 reads a little-endian uint64 from src[0:8].
func Uint64(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src)
}

// AppendUint16 appends v to dst as little-endian and returns the result.
func AppendUint16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// AppendUint32 appends v to dst as little-endian and returns the result.
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// AppendUint64 appends v to dst as little-endian and returns the result.
func AppendUint64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}
