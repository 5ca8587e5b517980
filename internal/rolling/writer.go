package rolling

import (
	"bufio"
	"os"

	"github.com/quickwit-oss/mrecordlog/internal/frame"
)

// Writer is a block-aligned append-only writer over a Directory's files.
// It satisfies frame.BlockWriter.
type Writer struct {
	dir        *Directory
	file       *os.File
	bw         *bufio.Writer
	fileNum    FileNumber
	fileOffset int64
}

// OpenWriter opens a Writer positioned at byte offset offsetInFile within
// fileNum, creating and pre-allocating the file if necessary. Used both
// for a brand-new log (offsetInFile == 0) and to promote a recovery
// reader into a writer positioned right after the last parsed frame.
func OpenWriter(dir *Directory, fileNum FileNumber, offsetInFile int64) (*Writer, error) {
	f, err := dir.openOrCreateForWrite(fileNum.Num())
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(offsetInFile, 0); err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{
		dir:        dir,
		file:       f,
		bw:         bufio.NewWriterSize(f, frame.BlockSize),
		fileNum:    fileNum,
		fileOffset: offsetInFile,
	}, nil
}

// Write implements frame.BlockWriter. p must fit within the space
// remaining in the current block; the frame layer guarantees this.
func (w *Writer) Write(p []byte) (int, error) {
	blockOff := int(w.fileOffset % frame.BlockSize)
	if blockOff+len(p) > frame.BlockSize {
		panic("rolling: write crosses a block boundary")
	}
	n, err := w.bw.Write(p)
	w.fileOffset += int64(n)
	if err != nil {
		return n, err
	}
	if w.fileOffset == FileSize {
		if rerr := w.rollToNextFile(); rerr != nil {
			return n, rerr
		}
	}
	return n, nil
}

// NumBytesRemainingInBlock implements frame.BlockWriter.
func (w *Writer) NumBytesRemainingInBlock() int {
	return frame.BlockSize - int(w.fileOffset%frame.BlockSize)
}

// Flush implements frame.BlockWriter: it drains the buffered writer, and
// if fsync is true additionally fsyncs the current file and the
// directory inode.
func (w *Writer) Flush(fsync bool) error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if !fsync {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	return w.dir.Sync()
}

func (w *Writer) rollToNextFile() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	next := w.dir.tracker.Inc(w.fileNum.Num())
	f, err := w.dir.openOrCreateForWrite(next.Num())
	if err != nil {
		return err
	}
	_ = w.file.Close()
	w.file = f
	w.bw = bufio.NewWriterSize(f, frame.BlockSize)
	w.fileNum = next
	w.fileOffset = 0
	return nil
}

// CurrentFileRef returns the current write file's FileNumber. Callers
// that need a durable reference (e.g. the orchestrator snapshotting the
// file-ref before an append) must call Clone() on the result themselves.
func (w *Writer) CurrentFileRef() FileNumber {
	return w.fileNum
}

// Offset returns the current byte offset within the current file.
func (w *Writer) Offset() int64 {
	return w.fileOffset
}

// Close closes the underlying file handle without flushing.
func (w *Writer) Close() error {
	return w.file.Close()
}
