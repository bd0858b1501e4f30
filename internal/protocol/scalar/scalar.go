// Package scalar reads and writes fixed-width little-endian values and
// provides the seekable in-memory buffer the encoder backpatches into.
package scalar

import (
	"encoding/binary"
	"io"
)

// Fixed is the set of scalar types with a fixed little-endian wire width.
type Fixed interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32
}

// Size returns the wire width of T in bytes.
func Size[T Fixed]() int {
	var v T
	return binary.Size(v)
}

// Read decodes exactly Size[T]() little-endian bytes from r.
func Read[T Fixed](r io.Reader) (T, error) {
	var v T
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return v, err
	}
	return v, nil
}

// Write encodes v as little-endian bytes and returns the offset where
// writing began.
func Write[T Fixed](w io.WriteSeeker, v T) (int64, error) {
	start, err := Position(w)
	if err != nil {
		return 0, err
	}
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return 0, err
	}
	return start, nil
}

// ReadBytes fills a fixed-size byte array from r.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteBytes writes b verbatim and returns the offset where writing began.
func WriteBytes(w io.WriteSeeker, b []byte) (int64, error) {
	start, err := Position(w)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(b); err != nil {
		return 0, err
	}
	return start, nil
}

// Position reports the current offset of s.
func Position(s io.Seeker) (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}
