// Package record implements the multiplexed record layer: it glues
// frames back into whole records, and encodes/decodes the multiplexed
// operation each record carries (append-batch, truncate, record-position,
// delete-queue), including the append-batch's own sub-record iterator.
//
// Grounded on original_source/src/record.rs (byte layout) and
// original_source/src/recordlog/{writer,reader}.rs (frame assembly).
package record

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"github.com/quickwit-oss/mrecordlog/internal/encoding"
)

// OpTag identifies which multiplexed operation a record carries.
type OpTag uint8

const (
	// OpTruncate drops all records up to and including a position.
	OpTruncate OpTag = 1
	// OpRecordPosition records a queue's next_position without payload,
	// used both at queue creation and to durably acknowledge GC-time
	// truncation of now-empty queues.
	OpRecordPosition OpTag = 2
	// OpDeleteQueue removes a queue entirely.
	OpDeleteQueue OpTag = 3
	// OpAppendRecords appends a batch of sub-records to a queue.
	OpAppendRecords OpTag = 4
)

func (t OpTag) valid() bool {
	return t >= OpTruncate && t <= OpAppendRecords
}

// headerLen is op-tag(1) + position(8) + queue-name-len(2).
const headerLen = 1 + 8 + 2

// ErrCorruption is returned when a record's length fields are inconsistent
// with the bytes available, or a field fails UTF-8 validation.
var ErrCorruption = errors.New("record: corruption detected")

// Record is one decoded multiplexed operation.
type Record struct {
	Op       OpTag
	Queue    string
	Position uint64
	// Payload holds the AppendRecords sub-record bytes; empty for every
	// other operation.
	Payload []byte
}

// Encode serializes rec to its wire form.
func Encode(rec Record) []byte {
	queue := []byte(rec.Queue)
	out := make([]byte, headerLen+len(queue)+len(rec.Payload))
	out[0] = byte(rec.Op)
	encoding.PutUint64(out[1:9], rec.Position)
	encoding.PutUint16(out[9:11], uint16(len(queue)))
	copy(out[11:11+len(queue)], queue)
	copy(out[11+len(queue):], rec.Payload)
	return out
}

// Decode parses data into a Record. It returns ErrCorruption if the
// buffer is too short for its own declared lengths or the queue name is
// not valid UTF-8.
func Decode(data []byte) (Record, error) {
	if len(data) < headerLen {
		return Record{}, ErrCorruption
	}
	op := OpTag(data[0])
	if !op.valid() {
		return Record{}, ErrCorruption
	}
	position := encoding.Uint64(data[1:9])
	queueLen := int(encoding.Uint16(data[9:11]))
	if len(data) < headerLen+queueLen {
		return Record{}, ErrCorruption
	}
	queueBytes := data[11 : 11+queueLen]
	if !utf8.Valid(queueBytes) {
		return Record{}, ErrCorruption
	}
	payload := data[11+queueLen:]
	return Record{
		Op:       op,
		Queue:    string(queueBytes),
		Position: position,
		Payload:  payload,
	}, nil
}

// SubRecord is one entry of an AppendRecords batch payload.
type SubRecord struct {
	Position uint64
	Payload  []byte
}

// subHeaderLen is position(8) + len(4).
const subHeaderLen = 8 + 4

// EncodeAppendBatch serializes a batch of sequentially-positioned
// sub-records starting at startPosition.
func EncodeAppendBatch(startPosition uint64, payloads [][]byte) []byte {
	size := 0
	for _, p := range payloads {
		size += subHeaderLen + len(p)
	}
	out := make([]byte, 0, size)
	pos := startPosition
	for _, p := range payloads {
		var hdr [subHeaderLen]byte
		binary.LittleEndian.PutUint64(hdr[0:8], pos)
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(p)))
		out = append(out, hdr[:]...)
		out = append(out, p...)
		pos++
	}
	return out
}

// DecodeAppendBatch decodes an AppendRecords payload into its sub-records.
// It validates the entire batch before returning any of it, so a
// truncated sub-record fails the whole decode rather than returning a
// partial slice (mirrors original_source's MultiRecord::new, which
// fully iterates once to check for corruption before handing out items).
func DecodeAppendBatch(payload []byte) ([]SubRecord, error) {
	var out []SubRecord
	rest := payload
	for len(rest) > 0 {
		if len(rest) < subHeaderLen {
			return nil, ErrCorruption
		}
		pos := encoding.Uint64(rest[0:8])
		length := encoding.Uint32(rest[8:12])
		rest = rest[subHeaderLen:]
		if uint64(len(rest)) < uint64(length) {
			return nil, ErrCorruption
		}
		out = append(out, SubRecord{Position: pos, Payload: rest[:length]})
		rest = rest[length:]
	}
	return out, nil
}
