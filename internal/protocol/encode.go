package protocol

import (
	"io"
	"math"

	"github.com/danmuck/ptvoice/internal/protocol/scalar"
	"github.com/danmuck/ptvoice/internal/protocol/varint"
	"github.com/danmuck/ptvoice/internal/value"
)

// Encode writes v to w as a ptvoice block and returns the offset where the
// block begins. The data length is written as a placeholder and patched once
// the body is complete, so w is left positioned at the end of the block.
func Encode(w io.WriteSeeker, v *Voice) (int64, error) {
	if v == nil {
		return 0, invalid("nil voice")
	}
	count, ok := value.Len32(len(v.Units))
	if !ok {
		return 0, overMax("unit", len(v.Units))
	}

	start, err := scalar.WriteBytes(w, Signature[:])
	if err != nil {
		return 0, ioFailure("write signature", err)
	}
	if _, err := scalar.Write(w, Version); err != nil {
		return 0, ioFailure("write version", err)
	}
	lenAt, err := scalar.Write(w, int32(0))
	if err != nil {
		return 0, ioFailure("write data length", err)
	}
	dataStart := lenAt + int64(scalar.Size[int32]())

	if _, err := varint.Write(w, v.LegacyKey); err != nil {
		return 0, ioFailure("write legacy key", err)
	}
	if _, err := varint.WritePair(w, int32(0), int32(0)); err != nil {
		return 0, ioFailure("write reserved fields", err)
	}
	if _, err := varint.Write(w, count); err != nil {
		return 0, ioFailure("write unit count", err)
	}
	for _, u := range v.Units {
		if _, err := EncodeUnit(w, u); err != nil {
			return 0, err
		}
	}

	if err := patchDataLen(w, lenAt, dataStart); err != nil {
		return 0, err
	}
	return start, nil
}

func patchDataLen(w io.WriteSeeker, lenAt, dataStart int64) error {
	end, err := scalar.Position(w)
	if err != nil {
		return ioFailure("locate block end", err)
	}
	size := end - dataStart
	if size > math.MaxInt32 {
		return overMax("data byte", int(size))
	}
	if _, err := w.Seek(lenAt, io.SeekStart); err != nil {
		return ioFailure("seek data length", err)
	}
	if _, err := scalar.Write(w, int32(size)); err != nil {
		return ioFailure("patch data length", err)
	}
	if _, err := w.Seek(end, io.SeekStart); err != nil {
		return ioFailure("seek block end", err)
	}
	return nil
}

// EncodeBuffered encodes v into memory and copies the finished block to w in
// one write. Use it for sinks that cannot seek.
func EncodeBuffered(w io.Writer, v *Voice) error {
	buf := scalar.NewBuffer(nil)
	if _, err := Encode(buf, v); err != nil {
		return err
	}
	if _, err := buf.CopyTo(w); err != nil {
		return ioFailure("copy encoded voice", err)
	}
	return nil
}

// Marshal returns the encoded form of v.
func Marshal(v *Voice) ([]byte, error) {
	buf := scalar.NewBuffer(nil)
	if _, err := Encode(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
