package mem

import (
	"sort"

	"github.com/quickwit-oss/mrecordlog/internal/rolling"
)

// Queues owns every named queue plus the page arena they share.
// Grounded on original_source/src/mem/queues.rs's MemQueues.
type Queues struct {
	byName map[string]*Queue
	arena  *Arena
}

// NewQueues creates an empty Queues with a fresh arena.
func NewQueues() *Queues {
	return &Queues{byName: make(map[string]*Queue), arena: NewArena()}
}

// Arena returns the shared page arena, e.g. for resource-usage reporting.
func (qs *Queues) Arena() *Arena {
	return qs.arena
}

// Contains reports whether queue is known.
func (qs *Queues) Contains(queue string) bool {
	_, ok := qs.byName[queue]
	return ok
}

// Get returns the named queue, if any.
func (qs *Queues) Get(queue string) (*Queue, bool) {
	q, ok := qs.byName[queue]
	return q, ok
}

// CreateQueue adds an empty queue starting at position 0.
func (qs *Queues) CreateQueue(queue string) error {
	if qs.Contains(queue) {
		return ErrAlreadyExists
	}
	qs.byName[queue] = NewQueue()
	return nil
}

// DeleteQueue removes queue, releasing its file-refs and pages.
func (qs *Queues) DeleteQueue(queue string) error {
	q, ok := qs.byName[queue]
	if !ok {
		return MissingQueueError{Queue: queue}
	}
	q.Clear(qs.arena)
	delete(qs.byName, queue)
	return nil
}

// ListQueues returns every known queue name, sorted.
func (qs *Queues) ListQueues() []string {
	names := make([]string, 0, len(qs.byName))
	for name := range qs.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmptyQueueNames returns the names of every currently-empty queue,
// sorted, used by GC's pre-unlink RecordPosition persistence step.
func (qs *Queues) EmptyQueueNames() []string {
	var names []string
	for name, q := range qs.byName {
		if q.IsEmpty() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NextPosition returns the position queue's next append must land at.
func (qs *Queues) NextPosition(queue string) (uint64, error) {
	q, ok := qs.byName[queue]
	if !ok {
		return 0, MissingQueueError{Queue: queue}
	}
	return q.NextPosition(), nil
}

// AppendRecord appends payload to queue at targetPosition.
func (qs *Queues) AppendRecord(queue string, fileRef rolling.FileNumber, targetPosition uint64, payload []byte) error {
	q, ok := qs.byName[queue]
	if !ok {
		return MissingQueueError{Queue: queue}
	}
	return q.AppendRecord(fileRef, targetPosition, payload, qs.arena)
}

// Range returns the live records of queue whose position lies in
// [from, to] (both inclusive).
func (qs *Queues) Range(queue string, from, to uint64) ([]Record, error) {
	q, ok := qs.byName[queue]
	if !ok {
		return nil, MissingQueueError{Queue: queue}
	}
	return q.Range(from, to, qs.arena), nil
}

// LastPosition returns the position of queue's last live record.
func (qs *Queues) LastPosition(queue string) (uint64, bool, error) {
	q, ok := qs.byName[queue]
	if !ok {
		return 0, false, MissingQueueError{Queue: queue}
	}
	pos, ok := q.LastPosition()
	return pos, ok, nil
}

// LastRecord returns queue's last live record.
func (qs *Queues) LastRecord(queue string) (Record, bool, error) {
	q, ok := qs.byName[queue]
	if !ok {
		return Record{}, false, MissingQueueError{Queue: queue}
	}
	rec, ok := q.LastRecord(qs.arena)
	return rec, ok, nil
}

// Truncate drops every record of queue at or before position, returning
// the number of records removed.
func (qs *Queues) Truncate(queue string, position uint64) (int, error) {
	q, ok := qs.byName[queue]
	if !ok {
		return 0, MissingQueueError{Queue: queue}
	}
	return q.TruncateUpToIncluded(position, qs.arena), nil
}

// AckPosition ensures queue exists, is empty, and has NextPosition() ==
// pos, creating it if absent. If it exists but doesn't already satisfy
// that (non-empty, or a different next position), it is dropped and
// recreated: a mismatch means the previously durable tail was not fully
// persisted, so there is nothing worth preserving (spec §9 resolved
// open question #1).
func (qs *Queues) AckPosition(queue string, pos uint64) {
	if q, ok := qs.byName[queue]; ok {
		if q.IsEmpty() && q.NextPosition() == pos {
			return
		}
		q.Clear(qs.arena)
	}
	qs.byName[queue] = NewQueueAt(pos)
}
