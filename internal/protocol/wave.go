package protocol

import (
	"io"

	"github.com/danmuck/ptvoice/internal/protocol/scalar"
	"github.com/danmuck/ptvoice/internal/protocol/varint"
	"github.com/danmuck/ptvoice/internal/value"
)

type waveDecoder func(io.Reader) (Waveform, error)

var waveDecoders = map[WaveKind]waveDecoder{
	WaveCoordinate: decodeCoordinateWave,
	WaveOscillator: decodeOscillatorWave,
}

// DecodeWaveform reads one tagged waveform block.
func DecodeWaveform(r io.Reader) (Waveform, error) {
	tag, err := varint.Read[int32](r)
	if err != nil {
		return nil, ioFailure("read wave kind", err)
	}
	decode, ok := waveDecoders[WaveKind(tag)]
	if !ok {
		return nil, invalid("unknown wave kind %d", tag)
	}
	return decode(r)
}

func decodeCoordinateWave(r io.Reader) (Waveform, error) {
	n, err := readCount(r, "coordinate point")
	if err != nil {
		return nil, err
	}
	xWidth, err := varint.Read[int32](r)
	if err != nil {
		return nil, ioFailure("read coordinate x-width", err)
	}
	var points []CoordinatePoint
	for i := 0; i < n; i++ {
		x, y, err := scalar.ReadFixedPair[uint8, int8](r)
		if err != nil {
			return nil, ioFailure("read coordinate point", err)
		}
		points = append(points, CoordinatePoint{X: x, Y: y})
	}
	return &CoordinateWave{Points: points, XWidth: xWidth}, nil
}

func decodeOscillatorWave(r io.Reader) (Waveform, error) {
	n, err := readCount(r, "overtone")
	if err != nil {
		return nil, err
	}
	var overtones []Overtone
	for i := 0; i < n; i++ {
		num, amp, err := varint.ReadPair[int32, int32](r)
		if err != nil {
			return nil, ioFailure("read overtone", err)
		}
		overtones = append(overtones, Overtone{Number: num, Amplitude: amp})
	}
	return &OscillatorWave{Overtones: overtones}, nil
}

// EncodeWaveform writes w with its discriminant and returns the offset where
// writing began.
func EncodeWaveform(ws io.WriteSeeker, w Waveform) (int64, error) {
	switch wave := w.(type) {
	case *CoordinateWave:
		return encodeCoordinateWave(ws, wave)
	case *OscillatorWave:
		return encodeOscillatorWave(ws, wave)
	default:
		return 0, invalid("unsupported waveform %T", w)
	}
}

func encodeCoordinateWave(ws io.WriteSeeker, wave *CoordinateWave) (int64, error) {
	if wave == nil {
		return 0, invalid("nil coordinate wave")
	}
	count, ok := value.Len32(len(wave.Points))
	if !ok {
		return 0, overMax("coordinate point", len(wave.Points))
	}
	start, err := varint.Write(ws, int32(WaveCoordinate))
	if err != nil {
		return 0, ioFailure("write wave kind", err)
	}
	if _, err := varint.WritePair(ws, count, wave.XWidth); err != nil {
		return 0, ioFailure("write coordinate header", err)
	}
	for _, p := range wave.Points {
		if _, err := scalar.WriteFixedPair(ws, p.X, p.Y); err != nil {
			return 0, ioFailure("write coordinate point", err)
		}
	}
	return start, nil
}

func encodeOscillatorWave(ws io.WriteSeeker, wave *OscillatorWave) (int64, error) {
	if wave == nil {
		return 0, invalid("nil oscillator wave")
	}
	count, ok := value.Len32(len(wave.Overtones))
	if !ok {
		return 0, overMax("overtone", len(wave.Overtones))
	}
	start, err := varint.Write(ws, int32(WaveOscillator))
	if err != nil {
		return 0, ioFailure("write wave kind", err)
	}
	if _, err := varint.Write(ws, count); err != nil {
		return 0, ioFailure("write overtone count", err)
	}
	for _, o := range wave.Overtones {
		if _, err := varint.WritePair(ws, o.Number, o.Amplitude); err != nil {
			return 0, ioFailure("write overtone", err)
		}
	}
	return start, nil
}

// readCount reads a var-int list length, rejecting negative counts.
func readCount(r io.Reader, what string) (int, error) {
	raw, err := varint.Read[int32](r)
	if err != nil {
		return 0, ioFailure("read "+what+" count", err)
	}
	n, ok := value.LenFrom32(raw)
	if !ok {
		return 0, invalid("negative %s count %d", what, raw)
	}
	return n, nil
}
