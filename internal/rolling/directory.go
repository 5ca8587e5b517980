// Package rolling implements the rolling file layer: a directory of
// fixed-size numbered files treated as a single append sequence of 32 KiB
// blocks, with file rollover and refcounted garbage collection.
//
// Grounded on original_source/src/rolling/{mod,file_number,directory}.rs.
// Directory fsync uses a plain *os.File opened on the directory path and
// Sync(), which Go supports directly — the Rust original's manual libc
// directory-fsync workaround is not needed here.
package rolling

import (
	"os"
	"path/filepath"

	"github.com/quickwit-oss/mrecordlog/internal/frame"
)

// NumBlocksPerFile is the number of 32 KiB blocks per physical file
// (128 MiB files), matching the example size spec.md names.
const NumBlocksPerFile = 1 << 12

// FileSize is the fixed physical size of every log file.
const FileSize = int64(NumBlocksPerFile) * frame.BlockSize

// Directory manages the on-disk files backing a log and the in-memory
// tracker of which file numbers are still live.
type Directory struct {
	path    string
	tracker *Tracker
}

// OpenDirectory opens (or bootstraps) a log directory at path. An empty
// directory is seeded with a fresh, pre-allocated file number 0.
func OpenDirectory(path string) (*Directory, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var nums []uint64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := filenameToNumber(e.Name()); ok {
			nums = append(nums, n)
		}
	}
	d := &Directory{path: path}
	if len(nums) == 0 {
		d.tracker = NewTracker()
		if _, err := d.createFile(0); err != nil {
			return nil, err
		}
		return d, nil
	}
	d.tracker = NewTrackerFromNumbers(nums)
	return d, nil
}

// Path returns the directory's filesystem path.
func (d *Directory) Path() string {
	return d.path
}

// Tracker returns the directory's live file-number tracker.
func (d *Directory) Tracker() *Tracker {
	return d.tracker
}

func (d *Directory) filePath(num uint64) string {
	return filepath.Join(d.path, Filename(num))
}

func (d *Directory) createFile(num uint64) (*os.File, error) {
	f, err := os.OpenFile(d.filePath(num), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(FileSize); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// openOrCreateForWrite opens the file for read-write, creating and
// pre-allocating it if it does not exist yet (the file rolled to by the
// writer but never written by a prior run).
func (d *Directory) openOrCreateForWrite(num uint64) (*os.File, error) {
	f, err := os.OpenFile(d.filePath(num), os.O_RDWR, 0o644)
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return d.createFile(num)
}

func (d *Directory) openForRead(num uint64) (*os.File, error) {
	return os.Open(d.filePath(num))
}

func (d *Directory) removeFile(num uint64) error {
	return os.Remove(d.filePath(num))
}

// Sync fsyncs the directory inode itself, needed after creating or
// removing a file so the directory entry survives a crash.
func (d *Directory) Sync() error {
	f, err := os.Open(d.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// GC repeatedly unlinks the oldest tracked file while it is unreferenced
// and not the sole remaining file. The current write file is never
// removed, since it is always the newest and TakeFirstUnused refuses to
// pop the last remaining file.
func (d *Directory) GC() error {
	removed := false
	for {
		fn, ok := d.tracker.TakeFirstUnused()
		if !ok {
			break
		}
		if err := d.removeFile(fn.Num()); err != nil {
			return err
		}
		removed = true
	}
	if removed {
		return d.Sync()
	}
	return nil
}
