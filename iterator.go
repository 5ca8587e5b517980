package mrecordlog

import "github.com/quickwit-oss/mrecordlog/internal/mem"

// RecordIterator walks the records returned by Range, database/sql
// Rows-style: call Next before the first Position/Payload access, and
// after every subsequent one.
type RecordIterator struct {
	records []mem.Record
	idx     int
}

func newRecordIterator(records []mem.Record) *RecordIterator {
	return &RecordIterator{records: records, idx: -1}
}

// Next advances to the next record, returning false once exhausted.
func (it *RecordIterator) Next() bool {
	it.idx++
	return it.idx < len(it.records)
}

// Position returns the current record's position. Valid only after a
// call to Next that returned true.
func (it *RecordIterator) Position() uint64 {
	return it.records[it.idx].Position
}

// Payload returns the current record's payload. Valid only after a call
// to Next that returned true.
func (it *RecordIterator) Payload() []byte {
	return it.records[it.idx].Payload
}

// Len returns the total number of records the iterator will yield.
func (it *RecordIterator) Len() int {
	return len(it.records)
}
