package mem

import (
	"testing"

	"github.com/quickwit-oss/mrecordlog/internal/rolling"
)

func collect(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = string(r.Payload)
	}
	return out
}

func TestQueueAppendAndRange(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)

	if err := q.AppendRecord(f0, 0, []byte("hello"), arena); err != nil {
		t.Fatalf("append 0: %v", err)
	}
	if err := q.AppendRecord(f0, 1, []byte("happy"), arena); err != nil {
		t.Fatalf("append 1: %v", err)
	}

	got := collect(q.Range(0, 1, arena))
	want := []string{"hello", "happy"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Range = %v, want %v", got, want)
		}
	}

	if next := q.NextPosition(); next != 2 {
		t.Fatalf("NextPosition() = %d, want 2", next)
	}
	if last, ok := q.LastPosition(); !ok || last != 1 {
		t.Fatalf("LastPosition() = (%d, %v), want (1, true)", last, ok)
	}
}

func TestQueueAppendPastRejected(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	if err := q.AppendRecord(f0, 0, []byte("a"), arena); err != nil {
		t.Fatal(err)
	}
	if err := q.AppendRecord(f0, 0, []byte("a"), arena); err != ErrPast {
		t.Fatalf("append past = %v, want ErrPast", err)
	}
}

func TestQueueAppendAheadAllowsGap(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	if err := q.AppendRecord(f0, 0, []byte("a"), arena); err != nil {
		t.Fatal(err)
	}
	if err := q.AppendRecord(f0, 5, []byte("b"), arena); err != nil {
		t.Fatalf("append ahead: %v", err)
	}
	records := q.Range(0, 10, arena)
	if len(records) != 2 || records[1].Position != 5 {
		t.Fatalf("Range = %+v", records)
	}
}

func TestQueueFileRefOwnershipTransfersForward(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)

	if err := q.AppendRecord(f0, 0, []byte("a"), arena); err != nil {
		t.Fatal(err)
	}
	if f0.CanBeDeleted() {
		t.Fatal("expected f0 to be referenced by the first meta")
	}
	if err := q.AppendRecord(f0, 1, []byte("b"), arena); err != nil {
		t.Fatal(err)
	}
	// Only the second (last) meta should still hold the ref for f0.
	if q.metas[0].FileRef != nil {
		t.Fatal("expected predecessor's file-ref to have been moved forward")
	}
	if q.metas[1].FileRef == nil || q.metas[1].FileRef.Num() != 0 {
		t.Fatal("expected the latest meta to own the file-ref")
	}
}

func TestQueueTruncatePartial(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	for i := uint64(0); i < 4; i++ {
		if err := q.AppendRecord(f0, i, []byte{byte('0' + i)}, arena); err != nil {
			t.Fatal(err)
		}
	}
	removed := q.TruncateUpToIncluded(1, arena)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	records := q.Range(0, 10, arena)
	if len(records) != 2 || records[0].Position != 2 || records[1].Position != 3 {
		t.Fatalf("Range after truncate = %+v", records)
	}
	if string(records[0].Payload) != "2" || string(records[1].Payload) != "3" {
		t.Fatalf("payloads after truncate = %q %q", records[0].Payload, records[1].Payload)
	}
}

func TestQueueTruncateClearsEntirely(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	for i := uint64(0); i < 3; i++ {
		if err := q.AppendRecord(f0, i, []byte("x"), arena); err != nil {
			t.Fatal(err)
		}
	}
	removed := q.TruncateUpToIncluded(5, arena)
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if !q.IsEmpty() {
		t.Fatal("expected queue to be empty")
	}
	if next := q.NextPosition(); next != 6 {
		t.Fatalf("NextPosition() = %d, want 6", next)
	}
}

func TestQueueTruncateBeforeStartIsNoop(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	if err := q.AppendRecord(f0, 3, []byte("x"), arena); err != nil {
		t.Fatal(err)
	}
	if removed := q.TruncateUpToIncluded(1, arena); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

// TestQueueTruncateIntoGapSetsStartPositionToPosPlusOne covers spec
// §4.4's literal start_position assignment when the truncated-up-to
// position falls inside a gap created by an ahead append (§4.5 step 2):
// start_position must become pos+1, not the next surviving record's own
// position, even though those two values coincide whenever positions are
// contiguous.
func TestQueueTruncateIntoGapSetsStartPositionToPosPlusOne(t *testing.T) {
	arena := NewArena()
	q := NewQueue()
	f0 := rolling.NewFileNumber(0)
	if err := q.AppendRecord(f0, 0, []byte("a"), arena); err != nil {
		t.Fatal(err)
	}
	if err := q.AppendRecord(f0, 5, []byte("f"), arena); err != nil {
		t.Fatal(err)
	}
	if removed := q.TruncateUpToIncluded(2, arena); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if q.startPosition != 3 {
		t.Fatalf("startPosition = %d, want 3", q.startPosition)
	}
	if got := q.StartPosition(); got != 3 {
		t.Fatalf("StartPosition() = %d, want 3", got)
	}
}
