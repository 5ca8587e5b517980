package mrecordlog

import (
	"io"

	"github.com/quickwit-oss/mrecordlog/internal/frame"
	"github.com/quickwit-oss/mrecordlog/internal/mem"
	"github.com/quickwit-oss/mrecordlog/internal/record"
	"github.com/quickwit-oss/mrecordlog/internal/rolling"
)

// replayResult carries everything recovery learned that the writer needs
// to resume from: the queues rebuilt from the log, and where the last
// block read ends, so the writer can be positioned to overwrite any
// trailing zero padding instead of appending after it.
type replayResult struct {
	queues       *mem.Queues
	fileNum      uint64
	offsetInFile int64
}

// replay reads every record from the start of dir's oldest tracked file,
// rebuilding the in-memory queue state. Block/frame-level corruption is
// logged and recovery continues at the next block (spec §4.5.2); a
// decode failure at the record or sub-record level, or a sub-record
// append rejected as Past, means the log itself is inconsistent and
// recovery fails outright.
func replay(dir *rolling.Directory, logger Logger) (replayResult, error) {
	first, ok := dir.Tracker().First()
	if !ok {
		return replayResult{}, CorruptionError{Msg: "no tracked files to recover from"}
	}
	rr, err := rolling.OpenReader(dir, first.Num())
	if err != nil {
		return replayResult{}, err
	}
	defer rr.Close()

	fr := frame.NewReader(rr)
	recReader := record.NewReader(fr)
	queues := mem.NewQueues()

	for {
		curFileNum := rr.FileNumber()
		data, err := recReader.Next()
		if err == io.EOF {
			break
		}
		if err == frame.ErrCorruption {
			logger.Warnf("mrecordlog: corrupt block in file %s, skipping to next block", rolling.Filename(curFileNum))
			continue
		}
		if err != nil {
			return replayResult{}, err
		}

		rec, derr := record.Decode(data)
		if derr != nil {
			return replayResult{}, CorruptionError{Msg: "malformed multiplexed record: " + derr.Error()}
		}

		fileRef, ok := dir.Tracker().Get(curFileNum)
		if !ok {
			return replayResult{}, CorruptionError{Msg: "record references an untracked file"}
		}

		switch rec.Op {
		case record.OpAppendRecords:
			if err := replayAppendRecords(queues, rec, fileRef); err != nil {
				return replayResult{}, err
			}
		case record.OpTruncate:
			if queues.Contains(rec.Queue) {
				if _, err := queues.Truncate(rec.Queue, rec.Position); err != nil {
					return replayResult{}, err
				}
			}
		case record.OpRecordPosition:
			queues.AckPosition(rec.Queue, rec.Position)
		case record.OpDeleteQueue:
			if queues.Contains(rec.Queue) {
				if err := queues.DeleteQueue(rec.Queue); err != nil {
					return replayResult{}, err
				}
			}
		}
	}

	return replayResult{
		queues:       queues,
		fileNum:      rr.FileNumber(),
		offsetInFile: rr.BlockStart() + int64(fr.Cursor()),
	}, nil
}

func replayAppendRecords(queues *mem.Queues, rec record.Record, fileRef rolling.FileNumber) error {
	if !queues.Contains(rec.Queue) {
		queues.AckPosition(rec.Queue, rec.Position)
	}
	subs, err := record.DecodeAppendBatch(rec.Payload)
	if err != nil {
		return CorruptionError{Msg: "malformed append batch: " + err.Error()}
	}
	for _, sub := range subs {
		if err := queues.AppendRecord(rec.Queue, fileRef, sub.Position, sub.Payload); err != nil {
			return CorruptionError{Msg: "replayed sub-record out of order: " + err.Error()}
		}
	}
	return nil
}
