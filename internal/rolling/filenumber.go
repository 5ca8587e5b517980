package rolling

import (
	"fmt"
	"sync/atomic"
)

// filenamePrefix and filenameDigits define the on-disk naming scheme:
// "wal-" followed by 20 zero-padded decimal digits.
const (
	filenamePrefix = "wal-"
	filenameDigits = 20
)

// FileNumber is a refcounted handle to a file number. It is the Go
// equivalent of the reference implementation's Arc<u64>-based handle:
// Go has no Arc, and the spec explicitly forbids relying on GC
// finalizers for this, so refcounting is explicit via Clone/Release.
//
// A FileNumber is a small value type; copying it does not clone the
// reference (it would double-count), use Clone for that. The zero
// value is not a valid FileNumber.
type FileNumber struct {
	n    uint64
	refc *atomic.Int32
}

// NewFileNumber creates a FileNumber with an initial refcount of 1,
// representing the file tracker's own bookkeeping entry.
func NewFileNumber(n uint64) FileNumber {
	rc := &atomic.Int32{}
	rc.Store(1)
	return FileNumber{n: n, refc: rc}
}

// Num returns the underlying file number.
func (f FileNumber) Num() uint64 {
	return f.n
}

// Filename returns the on-disk filename for this file number.
func (f FileNumber) Filename() string {
	return Filename(f.n)
}

// Filename returns the on-disk filename for a raw file number.
func Filename(n uint64) string {
	return fmt.Sprintf("%s%0*d", filenamePrefix, filenameDigits, n)
}

// Clone takes an additional reference, e.g. an in-memory index entry
// recording that a record lives in this file.
func (f FileNumber) Clone() FileNumber {
	f.refc.Add(1)
	return f
}

// Release drops a reference previously taken via Clone.
func (f FileNumber) Release() {
	f.refc.Add(-1)
}

// CanBeDeleted reports whether only the tracker's own bookkeeping
// reference remains, i.e. no in-memory index entry still points here.
func (f FileNumber) CanBeDeleted() bool {
	return f.refc.Load() <= 1
}

// filenameToNumber parses a "wal-<20 digits>" filename back into a file
// number. It returns false for anything else found in the directory.
func filenameToNumber(name string) (uint64, bool) {
	if len(name) != len(filenamePrefix)+filenameDigits {
		return 0, false
	}
	if name[:len(filenamePrefix)] != filenamePrefix {
		return 0, false
	}
	digits := name[len(filenamePrefix):]
	var n uint64
	for _, c := range []byte(digits) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	return n, true
}
