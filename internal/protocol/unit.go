package protocol

import (
	"io"

	"github.com/danmuck/ptvoice/internal/protocol/varint"
	"github.com/danmuck/ptvoice/internal/value"
)

// DecodeUnit reads one unit and its optional waveform and envelope blocks.
func DecodeUnit(r io.Reader) (Unit, error) {
	var u Unit

	key, err := varint.Read[int32](r)
	if err != nil {
		return Unit{}, ioFailure("read unit key", err)
	}
	volume, pan, err := varint.ReadPair[int32, int32](r)
	if err != nil {
		return Unit{}, ioFailure("read unit volume", err)
	}
	tuning, err := varint.Read[float32](r)
	if err != nil {
		return Unit{}, ioFailure("read unit tuning", err)
	}
	u.Key = value.Key(key)
	u.Volume = value.Volume(volume)
	u.Pan = value.PanVolume(pan)
	u.Tuning = value.Tuning(tuning)

	flags, err := varint.Read[uint32](r)
	if err != nil {
		return Unit{}, ioFailure("read unit flags", err)
	}
	if UnitFlags(flags)&unitFlagsReserved != 0 {
		return Unit{}, invalid("reserved unit flag bits %#x", flags)
	}
	u.Flags = UnitFlags(flags)

	raw, err := varint.Read[uint32](r)
	if err != nil {
		return Unit{}, ioFailure("read unit data flags", err)
	}
	present := dataFlags(raw)
	if present&dataFlagsReserved != 0 {
		return Unit{}, invalid("reserved unit data flag bits %#x", raw)
	}

	if present&dataFlagWave != 0 {
		if u.Wave, err = DecodeWaveform(r); err != nil {
			return Unit{}, err
		}
	}
	if present&dataFlagEnvelope != 0 {
		if u.Envelope, err = DecodeEnvelope(r); err != nil {
			return Unit{}, err
		}
	}
	return u, nil
}

// EncodeUnit writes u and returns the offset where writing began.
func EncodeUnit(w io.WriteSeeker, u Unit) (int64, error) {
	if u.Flags&unitFlagsReserved != 0 {
		return 0, invalid("reserved unit flag bits %#x", uint32(u.Flags))
	}

	start, err := varint.Write(w, int32(u.Key))
	if err != nil {
		return 0, ioFailure("write unit key", err)
	}
	if _, err := varint.WritePair(w, int32(u.Volume), int32(u.Pan)); err != nil {
		return 0, ioFailure("write unit volume", err)
	}
	if _, err := varint.Write(w, float32(u.Tuning)); err != nil {
		return 0, ioFailure("write unit tuning", err)
	}
	if _, err := varint.WritePair(w, uint32(u.Flags), uint32(u.dataFlags())); err != nil {
		return 0, ioFailure("write unit flags", err)
	}

	if u.Wave != nil {
		if _, err := EncodeWaveform(w, u.Wave); err != nil {
			return 0, err
		}
	}
	if u.Envelope != nil {
		if _, err := EncodeEnvelope(w, u.Envelope); err != nil {
			return 0, err
		}
	}
	return start, nil
}

func (u Unit) dataFlags() dataFlags {
	var f dataFlags
	if u.Wave != nil {
		f |= dataFlagWave
	}
	if u.Envelope != nil {
		f |= dataFlagEnvelope
	}
	return f
}
