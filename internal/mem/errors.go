package mem

import "fmt"

// AlreadyExistsError is returned by CreateQueue for a name already in use.
type AlreadyExistsError struct{}

func (AlreadyExistsError) Error() string { return "mem: queue already exists" }

// ErrAlreadyExists is the sentinel value of AlreadyExistsError.
var ErrAlreadyExists = AlreadyExistsError{}

// MissingQueueError is returned by any operation naming an unknown queue.
type MissingQueueError struct {
	Queue string
}

func (e MissingQueueError) Error() string {
	return fmt.Sprintf("mem: missing queue %q", e.Queue)
}

// PastError is returned by AppendRecord when the caller-supplied position
// has already been passed.
type PastError struct{}

func (PastError) Error() string { return "mem: position is in the past" }

// ErrPast is the sentinel value of PastError.
var ErrPast = PastError{}
