package mrecordlog

import "github.com/quickwit-oss/mrecordlog/internal/record"

// runGC implements the file-retention protocol (spec §4.5.1): if the
// oldest tracked file is unreferenced and more than one file remains,
// persist durable RecordPosition markers for every queue that has
// become empty (so their next_position survives the files about to be
// unlinked), protect the current write file with an extra reference,
// then unlink every oldest-first unreferenced file.
func (l *MultiRecordLog) runGC() error {
	tracker := l.dir.Tracker()
	oldest, ok := tracker.First()
	if !ok || len(tracker.Numbers()) < 2 || !oldest.CanBeDeleted() {
		return nil
	}

	for _, queue := range l.queues.EmptyQueueNames() {
		next, err := l.queues.NextPosition(queue)
		if err != nil {
			return translateMemErr(err)
		}
		if err := l.writeRaw(record.Record{Op: record.OpRecordPosition, Queue: queue, Position: next}); err != nil {
			return err
		}
	}
	if err := l.persistNow(ActionFlushAndFsync); err != nil {
		return err
	}

	current := l.rw.CurrentFileRef().Clone()
	defer current.Release()

	return l.dir.GC()
}
