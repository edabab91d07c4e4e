package tlv

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrIndex is returned by Reader when a read would run past the region.
var ErrIndex = errors.New("tlv: index error")

// Writer is an io.Writer over a fixed region. It never grows the region and
// fails without writing anything when p does not fit.
type Writer struct {
	b   []byte
	off int
}

func NewWriter(b []byte) *Writer {
	return &Writer{b: b}
}

func (w *Writer) Write(p []byte) (int, error) {
	if len(p) > w.Remaining() {
		return 0, io.ErrShortBuffer
	}
	n := copy(w.b[w.off:], p)
	w.off += n
	return n, nil
}

// WriteHeader writes h at the cursor.
func (w *Writer) WriteHeader(h Header) error {
	if err := h.Put(w.b[w.off:]); err != nil {
		return err
	}
	w.off += HeaderLen
	return nil
}

// WriteStruct encodes a fixed-size value little-endian at the cursor.
func (w *Writer) WriteStruct(v interface{}) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// Len is the number of bytes written so far.
func (w *Writer) Len() int { return w.off }

func (w *Writer) Remaining() int { return len(w.b) - w.off }

// Reader is a bounds-checked cursor over a borrowed region.
type Reader struct {
	b   []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.off:])
	r.off += n
	return n, nil
}

// Next returns the next n bytes without copying.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrIndex
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadStruct decodes a fixed-size value little-endian from the cursor.
func (r *Reader) ReadStruct(v interface{}) error {
	if sz := binary.Size(v); sz < 0 || sz > r.Remaining() {
		return ErrIndex
	}
	return binary.Read(r, binary.LittleEndian, v)
}

func (r *Reader) Remaining() int { return len(r.b) - r.off }
