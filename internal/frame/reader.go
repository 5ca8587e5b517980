package frame

import "io"

// BlockReader is the block-aligned read contract the rolling file layer
// offers the frame layer.
type BlockReader interface {
	// Block returns the full contents of the current block.
	Block() []byte
	// NextBlock advances to the next block, possibly crossing into the
	// next file. It returns io.EOF when no further block is available.
	NextBlock() error
}

// Reader reassembles frames out of a stream of fixed-size blocks.
type Reader struct {
	src            BlockReader
	cursor         int
	blockCorrupted bool
}

// NewReader creates a frame Reader over src.
func NewReader(src BlockReader) *Reader {
	return &Reader{src: src}
}

func (r *Reader) numBytesToEndOfBlock() int {
	return BlockSize - r.cursor
}

func (r *Reader) goToNextBlockIfNecessary() error {
	needSkip := r.blockCorrupted || r.numBytesToEndOfBlock() < HeaderLen
	if !needSkip {
		return nil
	}
	if err := r.src.NextBlock(); err != nil {
		return err
	}
	r.cursor = 0
	r.blockCorrupted = false
	return nil
}

func (r *Reader) getFrameHeader() (Header, error) {
	block := r.src.Block()
	headerBytes := block[r.cursor : r.cursor+HeaderLen]
	allZero := true
	for _, b := range headerBytes {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return Header{}, ErrNotAvailable
	}
	r.cursor += HeaderLen
	header, ok := Deserialize(headerBytes)
	if !ok {
		r.blockCorrupted = true
		return Header{}, ErrCorruption
	}
	return header, nil
}

// ReadFrame reads the next frame, returning its type and a slice of the
// payload valid until the next call. On io.EOF, the underlying block
// stream is exhausted. ErrNotAvailable signals an unwritten tail (a
// zeroed header); ErrCorruption signals a bad header or checksum, after
// which the rest of the current block is discarded.
func (r *Reader) ReadFrame() (Type, []byte, error) {
	if err := r.goToNextBlockIfNecessary(); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, err
	}
	header, err := r.getFrameHeader()
	if err != nil {
		return 0, nil, err
	}
	if r.cursor+int(header.Len) > BlockSize {
		r.blockCorrupted = true
		return 0, nil, ErrCorruption
	}
	block := r.src.Block()
	payload := block[r.cursor : r.cursor+int(header.Len)]
	r.cursor += int(header.Len)
	if !header.Check(payload) {
		r.blockCorrupted = true
		return 0, nil, ErrCorruption
	}
	return header.Type, payload, nil
}

// Cursor returns the current in-block byte offset, used to promote a
// reader into a writer positioned at the start of the last block read.
func (r *Reader) Cursor() int {
	return r.cursor
}
