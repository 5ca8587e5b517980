package mem

import (
	"sort"

	"github.com/quickwit-oss/mrecordlog/internal/rolling"
)

// RecordMeta is one entry of a queue's ordered in-memory index: the
// rolling-buffer byte offset a record's payload starts at, the position
// it was appended at, and (for at most one entry per contiguous
// same-file span) the file-ref keeping that file alive on disk.
//
// Grounded on original_source/src/mem/queue.rs's RecordMeta, generalized
// to index into a page-backed RollingBuffer instead of a flat Vec<u8>.
type RecordMeta struct {
	StartOffset int
	FileRef     *rolling.FileNumber
	Position    uint64
}

// Record is one decoded, in-memory record returned by Range/LastRecord:
// a position and its payload bytes, copied out of the rolling buffer.
type Record struct {
	Position uint64
	Payload  []byte
}

// Queue is the in-memory index and rolling byte buffer for a single
// named queue. It is not safe for concurrent use.
type Queue struct {
	startPosition uint64
	metas         []RecordMeta
	buf           *RollingBuffer
}

// NewQueue creates an empty queue starting at position 0.
func NewQueue() *Queue {
	return &Queue{buf: NewRollingBuffer()}
}

// NewQueueAt creates an empty queue whose next append must land at
// nextPosition, used both by CreateQueue (nextPosition == 0) and by
// AckPosition during recovery.
func NewQueueAt(nextPosition uint64) *Queue {
	return &Queue{startPosition: nextPosition, buf: NewRollingBuffer()}
}

// IsEmpty reports whether the queue holds no live records.
func (q *Queue) IsEmpty() bool {
	return len(q.metas) == 0
}

// NumRecords returns the number of live records currently indexed.
func (q *Queue) NumRecords() int {
	return len(q.metas)
}

// StartPosition returns the position of the first live record, or the
// position the next append must land at if the queue is empty.
func (q *Queue) StartPosition() uint64 {
	return q.startPosition
}

// NextPosition returns the position the next append must land at.
func (q *Queue) NextPosition() uint64 {
	if len(q.metas) == 0 {
		return q.startPosition
	}
	return q.metas[len(q.metas)-1].Position + 1
}

// AppendRecord appends payload at targetPosition, attributing it to
// fileRef. It fails with ErrPast if targetPosition has already been
// passed; a targetPosition strictly ahead of NextPosition is accepted
// (the queue advances to it), per spec §4.5 step 2.
func (q *Queue) AppendRecord(fileRef rolling.FileNumber, targetPosition uint64, payload []byte, arena *Arena) error {
	if targetPosition < q.NextPosition() {
		return ErrPast
	}
	if len(q.metas) == 0 && q.startPosition == 0 {
		q.startPosition = targetPosition
	}

	var ref *rolling.FileNumber
	if n := len(q.metas); n > 0 && q.metas[n-1].FileRef != nil && q.metas[n-1].FileRef.Num() == fileRef.Num() {
		// Same file as the predecessor: move ownership of the ref
		// forward instead of cloning a new one.
		ref = q.metas[n-1].FileRef
		q.metas[n-1].FileRef = nil
	} else {
		cloned := fileRef.Clone()
		ref = &cloned
	}

	q.metas = append(q.metas, RecordMeta{
		StartOffset: q.buf.EndOffset(),
		FileRef:     ref,
		Position:    targetPosition,
	})
	q.buf.ExtendFromSlice(payload, arena)
	return nil
}

// positionFloorIdx returns the index of the first meta whose position is
// >= pos, or len(q.metas) if none.
func (q *Queue) positionFloorIdx(pos uint64) int {
	return sort.Search(len(q.metas), func(i int) bool { return q.metas[i].Position >= pos })
}

// Range returns the live records whose position lies in [from, to]
// (both inclusive).
func (q *Queue) Range(from, to uint64, arena *Arena) []Record {
	if len(q.metas) == 0 || to < from {
		return nil
	}
	startIdx := q.positionFloorIdx(from)
	var out []Record
	for i := startIdx; i < len(q.metas) && q.metas[i].Position <= to; i++ {
		start := q.metas[i].StartOffset
		end := q.buf.EndOffset()
		if i+1 < len(q.metas) {
			end = q.metas[i+1].StartOffset
		}
		out = append(out, Record{
			Position: q.metas[i].Position,
			Payload:  q.buf.GetRange(start, end, arena),
		})
	}
	return out
}

// LastPosition returns the position of the last live record, if any.
func (q *Queue) LastPosition() (uint64, bool) {
	if len(q.metas) == 0 {
		return 0, false
	}
	return q.metas[len(q.metas)-1].Position, true
}

// LastRecord returns the last live record, if any.
func (q *Queue) LastRecord(arena *Arena) (Record, bool) {
	if len(q.metas) == 0 {
		return Record{}, false
	}
	last := q.metas[len(q.metas)-1]
	payload := q.buf.GetRange(last.StartOffset, q.buf.EndOffset(), arena)
	return Record{Position: last.Position, Payload: payload}, true
}

// LastFileNumber returns the file number of the most recently written
// record, if any. The last meta in the index always owns a file-ref
// (the "last entry of a span owns the ref" invariant), so this never
// needs to look further back.
func (q *Queue) LastFileNumber() (uint64, bool) {
	if len(q.metas) == 0 {
		return 0, false
	}
	last := q.metas[len(q.metas)-1]
	if last.FileRef == nil {
		return 0, false
	}
	return last.FileRef.Num(), true
}

// LiveBytes returns a fresh copy of every byte currently retained by the
// queue, in position order.
func (q *Queue) LiveBytes(arena *Arena) []byte {
	return q.buf.GetRange(q.buf.StartOffset(), q.buf.EndOffset(), arena)
}

// releaseRefs releases every file-ref held by metas.
func releaseRefs(metas []RecordMeta) {
	for _, m := range metas {
		if m.FileRef != nil {
			m.FileRef.Release()
		}
	}
}

// TruncateUpToIncluded drops every record at or before pos, releasing
// the file-refs and rolling-buffer pages they alone were keeping alive.
// It returns the number of records removed.
func (q *Queue) TruncateUpToIncluded(pos uint64, arena *Arena) int {
	if len(q.metas) == 0 || pos < q.startPosition {
		return 0
	}
	lastPos := q.metas[len(q.metas)-1].Position
	if pos >= lastPos {
		removed := len(q.metas)
		releaseRefs(q.metas)
		q.buf.Clear(arena)
		q.metas = nil
		q.startPosition = pos + 1
		return removed
	}
	keepIdx := q.positionFloorIdx(pos + 1)
	removed := keepIdx
	releaseRefs(q.metas[:keepIdx])
	newStartOffset := q.metas[keepIdx].StartOffset
	q.metas = append([]RecordMeta(nil), q.metas[keepIdx:]...)
	q.buf.TruncateUpToExcluded(newStartOffset, arena)
	q.startPosition = pos + 1
	return removed
}

// Clear drops every record the queue holds, without changing
// startPosition. Used when a stale queue is about to be replaced by
// AckPosition.
func (q *Queue) Clear(arena *Arena) {
	releaseRefs(q.metas)
	q.buf.Clear(arena)
	q.metas = nil
}
