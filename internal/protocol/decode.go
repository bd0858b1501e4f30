package protocol

import (
	"io"

	"github.com/danmuck/ptvoice/internal/protocol/scalar"
	"github.com/danmuck/ptvoice/internal/protocol/varint"
)

// Decode reads a single ptvoice block from r.
func Decode(r io.Reader) (*Voice, error) {
	voice, _, err := DecodeWithHeader(r)
	return voice, err
}

// DecodeWithHeader reads a single ptvoice block from r and also returns its
// fixed header. The declared data length is reported, not checked.
func DecodeWithHeader(r io.Reader) (*Voice, Header, error) {
	head, err := readHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	legacyKey, err := varint.Read[int32](r)
	if err != nil {
		return nil, Header{}, ioFailure("read legacy key", err)
	}
	reserved0, reserved1, err := varint.ReadPair[int32, int32](r)
	if err != nil {
		return nil, Header{}, ioFailure("read reserved fields", err)
	}
	if reserved0 != 0 || reserved1 != 0 {
		return nil, Header{}, invalid("reserved fields (%d, %d)", reserved0, reserved1)
	}

	n, err := readCount(r, "unit")
	if err != nil {
		return nil, Header{}, err
	}

	voice := &Voice{LegacyKey: legacyKey}
	for i := 0; i < n; i++ {
		unit, err := DecodeUnit(r)
		if err != nil {
			return nil, Header{}, err
		}
		voice.Units = append(voice.Units, unit)
	}
	return voice, head, nil
}

func readHeader(r io.Reader) (Header, error) {
	sig, err := scalar.ReadBytes(r, len(Signature))
	if err != nil {
		return Header{}, ioFailure("read signature", err)
	}
	var head Header
	copy(head.Signature[:], sig)
	if head.Signature != Signature {
		return Header{}, invalid("signature %q", sig)
	}

	if head.Version, err = scalar.Read[int32](r); err != nil {
		return Header{}, ioFailure("read version", err)
	}
	if head.Version > Version {
		return Header{}, unsupported(head.Version)
	}

	if head.DataLen, err = scalar.Read[int32](r); err != nil {
		return Header{}, ioFailure("read data length", err)
	}
	return head, nil
}
