// Package varint implements the unsigned LEB128 encoding used for nearly all
// ptvoice integer and float fields.
//
// Only 32-bit payloads are supported: at most 5 bytes are consumed, and only
// the low 4 bits of a 5th byte contribute to the result. Values are carried
// by raw bit pattern, so negative int32 and float32 values round-trip
// exactly (a negative int32 always takes 5 bytes).
package varint

import (
	"io"
	"math"

	"github.com/danmuck/ptvoice/internal/protocol/scalar"
)

// MaxLen is the longest encoding of a 32-bit value.
const MaxLen = 5

const (
	payloadMask  = 0x7F
	continuation = 0x80
)

// Value is the set of 32-bit types the codec reinterprets by bit pattern.
type Value interface {
	float32 | int32 | uint32
}

func toBits[T Value](v T) uint32 {
	switch x := any(v).(type) {
	case float32:
		return math.Float32bits(x)
	case int32:
		return uint32(x)
	case uint32:
		return x
	}
	return 0
}

func fromBits[T Value](u uint32) T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = math.Float32frombits(u)
	case *int32:
		*p = int32(u)
	case *uint32:
		*p = u
	}
	return v
}

// Read decodes one LEB128 sequence from r and reinterprets it as T.
func Read[T Value](r io.Reader) (T, error) {
	next := byteSource(r)
	var result uint32
	for i := 0; i < MaxLen; i++ {
		b, err := next()
		if err != nil {
			if i > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		result |= uint32(b&payloadMask) << (7 * i)
		if b&continuation == 0 {
			break
		}
	}
	return fromBits[T](result), nil
}

// Write encodes v as LEB128 and returns the offset where writing began.
func Write[T Value](w io.WriteSeeker, v T) (int64, error) {
	start, err := scalar.Position(w)
	if err != nil {
		return 0, err
	}
	var buf [MaxLen]byte
	enc := Append(buf[:0], v)
	if _, err := w.Write(enc); err != nil {
		return 0, err
	}
	return start, nil
}

// Append appends the LEB128 encoding of v to dst.
func Append[T Value](dst []byte, v T) []byte {
	value := toBits(v)
	for i := 0; i < MaxLen; i++ {
		b := byte(value & payloadMask)
		value >>= 7
		if value != 0 {
			b |= continuation
		}
		dst = append(dst, b)
		if value == 0 {
			break
		}
	}
	return dst
}

// Len returns the number of bytes Write emits for v.
func Len[T Value](v T) int {
	value := toBits(v)
	n := 1
	for value >>= 7; value != 0 && n < MaxLen; value >>= 7 {
		n++
	}
	return n
}

// ReadPair decodes two var-ints in order.
func ReadPair[X, Y Value](r io.Reader) (X, Y, error) {
	return scalar.ReadPair[X, Y](r, Read[X], Read[Y])
}

// WritePair encodes two var-ints in order.
func WritePair[X, Y Value](w io.WriteSeeker, x X, y Y) (int64, error) {
	return scalar.WritePair[X, Y](w, x, y, Write[X], Write[Y])
}

func byteSource(r io.Reader) func() (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte
	}
	var one [1]byte
	return func() (byte, error) {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return 0, err
		}
		return one[0], nil
	}
}
