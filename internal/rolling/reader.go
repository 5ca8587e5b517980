package rolling

import (
	"io"
	"os"

	"github.com/quickwit-oss/mrecordlog/internal/frame"
)

// Reader is a forward-only block reader over a Directory's files,
// transparently crossing file boundaries. It satisfies frame.BlockReader.
//
// A short or empty read while filling a block (the on-disk signature of
// a crash mid-write, since files are pre-allocated to their full size) is
// treated the same as reaching the end of the current file: the reader
// advances to the next tracked file rather than surfacing an error, so
// that a torn tail in file N does not prevent recovering file N+1.
type Reader struct {
	dir        *Directory
	file       *os.File
	fileNum    uint64
	block      [frame.BlockSize]byte
	blockStart int64 // byte offset of the start of `block` within file
}

// OpenReader opens a Reader at the start of startFileNum and eagerly
// loads its first block.
func OpenReader(dir *Directory, startFileNum uint64) (*Reader, error) {
	f, err := dir.openForRead(startFileNum)
	if err != nil {
		return nil, err
	}
	r := &Reader{dir: dir, file: f, fileNum: startFileNum}
	if err := r.loadBlock(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) loadBlock() error {
	_, err := io.ReadFull(r.file, r.block[:])
	return err
}

// Block implements frame.BlockReader.
func (r *Reader) Block() []byte {
	return r.block[:]
}

// NextBlock implements frame.BlockReader. A short or empty read at the
// start of a file is treated as that file's end and skipped in favor of
// the next tracked file, looping until a readable block is found or the
// tracked files run out, the way original_source's directory.rs walks
// FileTracker.next in a loop rather than trying only one hop.
func (r *Reader) NextBlock() error {
	err := r.loadBlock()
	if err == nil {
		r.blockStart += frame.BlockSize
		return nil
	}
	if err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}
	curFileNum := r.fileNum
	for {
		next, ok := r.dir.tracker.Next(curFileNum)
		if !ok {
			return io.EOF
		}
		if cerr := r.file.Close(); cerr != nil {
			return cerr
		}
		f, oerr := r.dir.openForRead(next.Num())
		if oerr != nil {
			return oerr
		}
		r.file = f
		r.fileNum = next.Num()
		r.blockStart = 0
		err := r.loadBlock()
		if err == nil {
			return nil
		}
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return err
		}
		curFileNum = next.Num()
	}
}

// FileNumber returns the file number the currently loaded block belongs to.
func (r *Reader) FileNumber() uint64 {
	return r.fileNum
}

// BlockStart returns the byte offset of the currently loaded block within
// its file.
func (r *Reader) BlockStart() int64 {
	return r.blockStart
}

// Close closes the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
