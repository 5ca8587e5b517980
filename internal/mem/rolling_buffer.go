package mem

// RollingBuffer stores a moving window [start, end) of a conceptually
// unbounded byte stream, backed by fixed-size pages drawn from an Arena.
// Bytes are appended at the end and dropped from the start as the owning
// queue is truncated; only the pages still covering [start, end) are
// held.
//
// Grounded on original_source/src/mem/rolling_buffer.rs.
type RollingBuffer struct {
	pageIDs []PageID
	start   int
	end     int
}

// NewRollingBuffer creates an empty RollingBuffer.
func NewRollingBuffer() *RollingBuffer {
	return &RollingBuffer{}
}

func numPagesRequired(start, end int) int {
	if start >= end {
		return 0
	}
	firstPage := start / PageSize
	lastPage := (end - 1) / PageSize
	return lastPage - firstPage + 1
}

// Len returns the number of live bytes in the buffer.
func (b *RollingBuffer) Len() int {
	return b.end - b.start
}

// StartOffset returns the absolute offset of the first live byte.
func (b *RollingBuffer) StartOffset() int {
	return b.start
}

// EndOffset returns the absolute offset one past the last live byte.
func (b *RollingBuffer) EndOffset() int {
	return b.end
}

// Capacity returns the byte capacity currently held by the buffer's pages.
func (b *RollingBuffer) Capacity() int {
	return len(b.pageIDs) * PageSize
}

func (b *RollingBuffer) checkInvariants() {
	if got := numPagesRequired(b.start, b.end); got != len(b.pageIDs) {
		panic("mem: rolling buffer page count invariant violated")
	}
}

// TruncateUpToExcluded drops all bytes strictly before newStart,
// releasing any pages that no longer overlap the live range.
func (b *RollingBuffer) TruncateUpToExcluded(newStart int, arena *Arena) {
	if newStart > b.end {
		panic("mem: truncate past end of rolling buffer")
	}
	numPages := numPagesRequired(newStart, b.end)
	if numPages > len(b.pageIDs) {
		panic("mem: truncate would require more pages than held")
	}
	numToDrop := len(b.pageIDs) - numPages
	b.start = newStart
	if numToDrop > 0 {
		for _, id := range b.pageIDs[:numToDrop] {
			arena.ReleasePage(id)
		}
		b.pageIDs = b.pageIDs[numToDrop:]
	}
	b.checkInvariants()
}

// Clear drops every byte currently held.
func (b *RollingBuffer) Clear(arena *Arena) {
	b.TruncateUpToExcluded(b.end, arena)
}

// getPageWithRoom returns the tail of the page that has room for more
// bytes at the current end offset, acquiring a new page if the current
// last page is full or none exists yet.
func (b *RollingBuffer) getPageWithRoom(arena *Arena) []byte {
	startOffset := b.end % PageSize
	if startOffset == 0 || len(b.pageIDs) == 0 {
		b.pageIDs = append(b.pageIDs, arena.AcquirePage())
	}
	id := b.pageIDs[len(b.pageIDs)-1]
	return arena.Page(id)[startOffset:]
}

// ExtendFromSlice appends slice to the end of the buffer.
func (b *RollingBuffer) ExtendFromSlice(slice []byte, arena *Arena) {
	for len(slice) > 0 {
		page := b.getPageWithRoom(arena)
		n := len(page)
		if n > len(slice) {
			n = len(slice)
		}
		copy(page[:n], slice[:n])
		slice = slice[n:]
		b.end += n
	}
	b.checkInvariants()
}

// GetRange returns the live bytes in [start, end), copying across pages
// when the range spans more than one. The reference implementation
// returns a Cow that avoids the copy in the common single-page case;
// because Go pages are plain byte slices with no borrow checker to prove
// non-aliasing across a mutation, GetRange always returns a fresh copy
// that stays valid across later appends and truncations.
func (b *RollingBuffer) GetRange(start, end int, arena *Arena) []byte {
	if start < b.start || end > b.end {
		panic("mem: range out of bounds of rolling buffer")
	}
	if end <= start {
		return nil
	}
	out := make([]byte, 0, end-start)
	firstPageIdx := b.start / PageSize
	remaining := end - start
	pos := start
	for remaining > 0 {
		pageIdx := pos / PageSize
		pageOffset := pos % PageSize
		id := b.pageIDs[pageIdx-firstPageIdx]
		page := arena.Page(id)[pageOffset:]
		n := len(page)
		if n > remaining {
			n = remaining
		}
		out = append(out, page[:n]...)
		pos += n
		remaining -= n
	}
	return out
}
