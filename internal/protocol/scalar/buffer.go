package scalar

import (
	"errors"
	"io"
)

// ErrNegativeOffset is returned when a seek would move before the start of
// the buffer.
var ErrNegativeOffset = errors.New("scalar: negative seek offset")

// Buffer is an in-memory io.ReadWriteSeeker. Writes past the end grow the
// buffer; seeking past the end and writing zero-fills the gap.
type Buffer struct {
	data []byte
	off  int64
}

// NewBuffer returns a Buffer positioned at offset 0 over a copy of b.
func NewBuffer(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

// Bytes returns the full buffer contents regardless of the cursor.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the total number of bytes held.
func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.off:end], p)
	b.off = end
	return len(p), nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.off:])
	b.off += int64(n)
	return n, nil
}

// ReadByte lets the var-int decoder consume single bytes without an extra
// copy.
func (b *Buffer) ReadByte() (byte, error) {
	if b.off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("scalar: invalid whence")
	}
	if abs < 0 {
		return 0, ErrNegativeOffset
	}
	b.off = abs
	return abs, nil
}

// CopyTo writes the full buffer contents to w, ignoring the cursor.
func (b *Buffer) CopyTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}
