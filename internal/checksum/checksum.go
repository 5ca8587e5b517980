// Package checksum computes the frame checksum used by the on-disk log format.
//
// Unlike RocksDB's masked CRC32C, the wire format here pins a plain,
// unmasked IEEE CRC-32 (the polynomial used by zip/gzip), extended to
// cover the frame type byte ahead of the payload so that a corrupted
// frame-type byte is detected instead of silently reinterpreted.
package checksum

import "hash/crc32"

var ieeeTable = crc32.MakeTable(crc32.IEEE)

// Value computes the IEEE CRC-32 checksum of data.
func Value(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// Extend computes the CRC-32 of concat(A, data) where initCRC is the CRC-32 of A.
func Extend(initCRC uint32, data []byte) uint32 {
	return crc32.Update(initCRC, ieeeTable, data)
}

// FrameChecksum computes the checksum stored in a frame header: the CRC-32
// of the frame type byte followed by the frame payload.
func FrameChecksum(frameType byte, payload []byte) uint32 {
	return Extend(Value([]byte{frameType}), payload)
}
