package rolling

import "sort"

// Tracker keeps the ordered set of file numbers that make up a log
// directory, along with their refcounts. Grounded on
// original_source/src/rolling/file_number.rs's FileTracker/BTreeSet<FileNumber>.
//
// Tracker is not safe for concurrent use; the engine assumes a single
// mutator, per the concurrency model.
type Tracker struct {
	files []FileNumber // kept sorted ascending by Num()
}

// NewTracker creates a tracker seeded with file number 0, used when a
// directory is opened for the first time.
func NewTracker() *Tracker {
	return &Tracker{files: []FileNumber{NewFileNumber(0)}}
}

// NewTrackerFromNumbers creates a tracker from file numbers discovered on
// disk. nums need not be sorted. It panics if nums is empty; callers must
// fall back to NewTracker() for an empty directory.
func NewTrackerFromNumbers(nums []uint64) *Tracker {
	if len(nums) == 0 {
		panic("rolling: NewTrackerFromNumbers requires at least one file number")
	}
	sorted := append([]uint64(nil), nums...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	files := make([]FileNumber, len(sorted))
	for i, n := range sorted {
		files[i] = NewFileNumber(n)
	}
	return &Tracker{files: files}
}

// First returns the oldest file number, if any.
func (t *Tracker) First() (FileNumber, bool) {
	if len(t.files) == 0 {
		return FileNumber{}, false
	}
	return t.files[0], true
}

// Last returns the newest file number, if any.
func (t *Tracker) Last() (FileNumber, bool) {
	if len(t.files) == 0 {
		return FileNumber{}, false
	}
	return t.files[len(t.files)-1], true
}

// TakeFirstUnused pops and returns the oldest file number iff there are at
// least two files tracked and the oldest one carries no external
// reference. This is the building block of GC: the current write file
// (the last one) is never the one taken since len must stay >= 1 and the
// current file only gets removed if it also becomes the oldest AND there
// is nothing left newer, which TakeFirstUnused's >=2 guard prevents.
func (t *Tracker) TakeFirstUnused() (FileNumber, bool) {
	if len(t.files) < 2 {
		return FileNumber{}, false
	}
	if !t.files[0].CanBeDeleted() {
		return FileNumber{}, false
	}
	first := t.files[0]
	t.files = t.files[1:]
	return first, true
}

// Get returns the tracked handle for file number num, without taking a
// reference or removing it from the tracker.
func (t *Tracker) Get(num uint64) (FileNumber, bool) {
	for _, f := range t.files {
		if f.Num() == num {
			return f, true
		}
	}
	return FileNumber{}, false
}

// Next returns the tracked file number that immediately follows curr, if
// one already exists.
func (t *Tracker) Next(curr uint64) (FileNumber, bool) {
	for i, f := range t.files {
		if f.Num() == curr && i+1 < len(t.files) {
			return t.files[i+1], true
		}
	}
	return FileNumber{}, false
}

// Inc returns the file number following curr, creating and inserting a
// fresh one if none exists yet.
func (t *Tracker) Inc(curr uint64) FileNumber {
	if next, ok := t.Next(curr); ok {
		return next
	}
	next := NewFileNumber(curr + 1)
	t.files = append(t.files, next)
	return next
}

// Numbers returns the currently tracked file numbers in ascending order.
func (t *Tracker) Numbers() []uint64 {
	out := make([]uint64, len(t.files))
	for i, f := range t.files {
		out[i] = f.Num()
	}
	return out
}
