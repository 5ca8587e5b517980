package mrecordlog

import "fmt"

// AlreadyExistsError is returned by CreateQueue when the queue name is
// already in use.
type AlreadyExistsError struct {
	Queue string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("mrecordlog: queue %q already exists", e.Queue)
}

// MissingQueueError is returned by any operation naming an unknown queue.
type MissingQueueError struct {
	Queue string
}

func (e MissingQueueError) Error() string {
	return fmt.Sprintf("mrecordlog: missing queue %q", e.Queue)
}

// PastError is returned by AppendRecord/AppendRecords when the
// caller-supplied position has already been passed.
type PastError struct{}

// ErrPast is the sentinel value of PastError.
var ErrPast = PastError{}

func (PastError) Error() string { return "mrecordlog: position is in the past" }

// FutureError is kept for documentation and for Truncate, where spec.md
// is silent on a position at or beyond next_position: original_source
// rejects it outright rather than silently clamping, and nothing in
// spec.md contradicts that stricter behavior. Append never returns this
// error; an append ahead of next_position is an accepted "gap" per spec
// §4.5 step 2.
type FutureError struct{}

// ErrFuture is the sentinel value of FutureError.
var ErrFuture = FutureError{}

func (FutureError) Error() string { return "mrecordlog: position has not been appended yet" }

// CorruptionError is returned by Open when recovery cannot make sense of
// an on-disk record after block-level frame reassembly (e.g. a sub-record
// append rejected as Past during replay). Range and the other read
// accessors serve in-memory state and never return it. Block- and
// frame-level corruption encountered
// during recovery is NOT surfaced this way: it is logged and recovery
// continues at the next block, per spec §4.5.2.
type CorruptionError struct {
	Msg string
}

func (e CorruptionError) Error() string { return "mrecordlog: corruption: " + e.Msg }
