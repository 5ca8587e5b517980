// Package exportcodec wraps a handful of general-purpose compressors
// behind one small interface, used exclusively by cmd/mrldump to emit a
// compressed export of a queue's live payload range for offline
// inspection. It never touches the on-disk WAL format: spec §6 pins the
// frame checksum to a plain IEEE CRC-32 over byte-exact frames, and
// Non-goals exclude anything that would make a written frame's bytes
// not byte-reproducible.
//
// Grounded on aalhour-rockyardkv/internal/compression/compression.go's
// dispatch-by-Type shape.
package exportcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a supported compressor.
type Type uint8

const (
	// None passes bytes through unchanged.
	None Type = iota
	// Gzip uses klauspost/compress's drop-in gzip implementation.
	Gzip
	// Snappy uses Google's block-format Snappy codec.
	Snappy
	// LZ4 uses the LZ4 frame format.
	LZ4
)

// String returns the human-readable name of t.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Snappy:
		return "snappy"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// ParseType maps a CLI flag value to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "", "none":
		return None, nil
	case "gzip":
		return Gzip, nil
	case "snappy":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("exportcodec: unknown codec %q", name)
	}
}

// Encode compresses data using t.
func Encode(t Type, data []byte) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case Gzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("exportcodec: gzip write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("exportcodec: gzip close: %w", err)
		}
		return buf.Bytes(), nil
	case Snappy:
		return snappy.Encode(nil, data), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("exportcodec: lz4 write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("exportcodec: lz4 close: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("exportcodec: unsupported codec %v", t)
	}
}

// Decode decompresses data that was produced by Encode with the same t.
func Decode(t Type, data []byte) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("exportcodec: gzip open: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case Snappy:
		return snappy.Decode(nil, data)
	case LZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("exportcodec: unsupported codec %v", t)
	}
}
