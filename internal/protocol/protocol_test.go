package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/danmuck/ptvoice/internal/protocol/scalar"
	"github.com/danmuck/ptvoice/internal/value"
)

// Offsets into the encoding of coordinateOnlyVoice.
const (
	offDataLen   = 12
	offUnitFlags = 31
	offDataFlags = 32
)

func coordinateOnlyVoice() *Voice {
	u := Unit{
		Key:    value.KeyA4,
		Volume: value.VolumeFull,
		Pan:    value.PanCenter,
		Tuning: value.TuningNone,
		Flags:  FlagWaveLoop | FlagSmooth,
		Wave:   &CoordinateWave{Points: []CoordinatePoint{{0, 0}}, XWidth: 256},
	}
	return NewVoice(u)
}

func demoVoice() *Voice {
	sine := DefaultUnit()
	sine.Wave = DefaultSine()
	sine.Envelope = NewEnvelope(40,
		EnvelopePoint{X: 0, Y: 0},
		EnvelopePoint{X: 25, Y: 128},
		EnvelopePoint{X: 400, Y: 64},
	)

	square := DefaultUnit()
	square.Key = value.KeyFromA4Semis(-12)
	square.Volume = 48
	square.Pan = value.PanLeft
	square.Tuning = 1.005
	square.Flags = FlagBeatFit
	square.Wave = DefaultSquare()

	v := NewVoice(sine, square)
	v.LegacyKey = 7
	return v
}

func mustMarshal(t *testing.T, v *Voice) []byte {
	t.Helper()
	b, err := Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestRoundTripEncodeDecode(t *testing.T) {
	in := demoVoice()
	encoded := mustMarshal(t, in)

	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, decoded) {
		t.Fatalf("round-trip mismatch:\n in=%+v\nout=%+v", in, decoded)
	}

	again := mustMarshal(t, decoded)
	if !bytes.Equal(encoded, again) {
		t.Fatalf("re-encode mismatch")
	}
}

func TestRoundTripZeroUnits(t *testing.T) {
	decoded, err := Decode(bytes.NewReader(mustMarshal(t, NewVoice())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Units) != 0 {
		t.Fatalf("expected no units, got %d", len(decoded.Units))
	}
}

func TestRoundTripUnitWithoutBlocks(t *testing.T) {
	u := DefaultUnit()
	u.Wave = nil
	u.Envelope = nil
	in := NewVoice(u)

	decoded, err := Decode(bytes.NewReader(mustMarshal(t, in)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, decoded) {
		t.Fatalf("round-trip mismatch: %+v", decoded)
	}
}

func TestEncodeCoordinateOnlyUnit(t *testing.T) {
	encoded := mustMarshal(t, coordinateOnlyVoice())

	want := []byte{'P', 'T', 'V', 'O', 'I', 'C', 'E', '-'}
	want = append(want, 0xcf, 0x17, 0x32, 0x01) // version
	want = append(want, 0x17, 0x00, 0x00, 0x00) // data length
	want = append(want, 0x00, 0x00, 0x00, 0x01) // legacy key, reserved, unit count
	want = append(want, 0x80, 0xc0, 0x01)       // key
	want = append(want, 0x80, 0x01, 0x40)       // volume, pan
	want = append(want, 0x80, 0x80, 0x80, 0xfc, 0x03)
	want = append(want, 0x03, 0x01)             // flags, data flags
	want = append(want, 0x00, 0x01, 0x80, 0x02) // coordinate, count, x-width
	want = append(want, 0x00, 0x00)
	if !bytes.Equal(encoded, want) {
		t.Fatalf("encoding mismatch:\n got % x\nwant % x", encoded, want)
	}

	flags := encoded[offDataFlags]
	if flags&1 == 0 || flags&2 != 0 {
		t.Fatalf("expected wave bit only, got %#x", flags)
	}

	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	u := decoded.Units[0]
	wave, ok := u.Wave.(*CoordinateWave)
	if !ok {
		t.Fatalf("expected coordinate wave, got %T", u.Wave)
	}
	if wave.XWidth != 256 || len(wave.Points) != 1 || wave.Points[0] != (CoordinatePoint{0, 0}) {
		t.Fatalf("unexpected wave: %+v", wave)
	}
	if u.Envelope != nil {
		t.Fatalf("expected no envelope, got %+v", u.Envelope)
	}
}

func TestEnvelopeWireLayout(t *testing.T) {
	env := NewEnvelope(1, EnvelopePoint{X: 0, Y: 96})
	buf := scalar.NewBuffer(nil)
	if _, err := EncodeEnvelope(buf, env); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}

	// tick rate, count, legacy counts, (dx, y), release
	want := []byte{0xe8, 0x07, 0x01, 0x00, 0x01, 0x00, 0x60, 0x01, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("envelope bytes: got % x want % x", buf.Bytes(), want)
	}

	decoded, err := DecodeEnvelope(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !reflect.DeepEqual(decoded, env) {
		t.Fatalf("envelope mismatch: %+v", decoded)
	}
}

func TestEnvelopeDeltasAccumulate(t *testing.T) {
	env := NewEnvelope(5,
		EnvelopePoint{X: 10, Y: 1},
		EnvelopePoint{X: 30, Y: 2},
		EnvelopePoint{X: 30, Y: 3},
	)
	buf := scalar.NewBuffer(nil)
	if _, err := EncodeEnvelope(buf, env); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	// tick rate (2) + count + legacy (2), then (10,1) (20,2) (0,3)
	points := buf.Bytes()[5:11]
	if !bytes.Equal(points, []byte{10, 1, 20, 2, 0, 3}) {
		t.Fatalf("expected deltas, got % x", points)
	}
}

func TestEnvelopeReleaseYIgnored(t *testing.T) {
	raw := []byte{0xe8, 0x07, 0x00, 0x00, 0x01, 0x09, 0x7f}
	env, err := DecodeEnvelope(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Release != 9 || env.Points != nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestEnvelopeLegacyCountsRejected(t *testing.T) {
	for _, counts := range [][2]byte{{1, 1}, {0, 0}, {0, 2}} {
		raw := []byte{0xe8, 0x07, 0x00, counts[0], counts[1], 0x01, 0x00}
		_, err := DecodeEnvelope(bytes.NewReader(raw))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("counts %v: expected ErrInvalid, got %v", counts, err)
		}
	}
}

func TestDecodeRejectsReservedUnitFlags(t *testing.T) {
	encoded := mustMarshal(t, coordinateOnlyVoice())
	encoded[offUnitFlags] = 0x08
	_, err := Decode(bytes.NewReader(encoded))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeRejectsReservedDataFlags(t *testing.T) {
	encoded := mustMarshal(t, coordinateOnlyVoice())
	encoded[offDataFlags] = 0x05
	_, err := Decode(bytes.NewReader(encoded))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestEncodeRejectsReservedUnitFlags(t *testing.T) {
	v := coordinateOnlyVoice()
	v.Units[0].Flags |= 1 << 5
	if _, err := Marshal(v); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeInvalidSignature(t *testing.T) {
	encoded := mustMarshal(t, DefaultVoice())
	encoded[0] = 'X'
	_, err := Decode(bytes.NewReader(encoded))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeVersionGate(t *testing.T) {
	encoded := mustMarshal(t, DefaultVoice())

	binary.LittleEndian.PutUint32(encoded[8:12], uint32(Version+1))
	if _, err := Decode(bytes.NewReader(encoded)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	binary.LittleEndian.PutUint32(encoded[8:12], 20050101)
	_, head, err := DecodeWithHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("older version should decode: %v", err)
	}
	if head.Version != 20050101 {
		t.Fatalf("expected version 20050101, got %d", head.Version)
	}
}

func TestDecodeIgnoresDataLength(t *testing.T) {
	encoded := mustMarshal(t, DefaultVoice())
	binary.LittleEndian.PutUint32(encoded[offDataLen:], 9999)

	voice, head, err := DecodeWithHeader(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if head.DataLen != 9999 {
		t.Fatalf("expected recorded length 9999, got %d", head.DataLen)
	}
	if len(voice.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(voice.Units))
	}
}

func TestEncodeBackpatchesDataLength(t *testing.T) {
	buf := scalar.NewBuffer([]byte{0xaa, 0xbb, 0xcc, 0xdd})
	if _, err := buf.Seek(0, io.SeekEnd); err != nil {
		t.Fatalf("seek: %v", err)
	}

	start, err := Encode(buf, demoVoice())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if start != 4 {
		t.Fatalf("expected start offset 4, got %d", start)
	}
	pos, _ := scalar.Position(buf)
	if pos != int64(buf.Len()) {
		t.Fatalf("expected cursor at end %d, got %d", buf.Len(), pos)
	}

	block := buf.Bytes()[start:]
	declared := int32(binary.LittleEndian.Uint32(block[offDataLen:]))
	if int(declared) != len(block)-16 {
		t.Fatalf("declared length %d, body is %d bytes", declared, len(block)-16)
	}
}

// farSeeker reports positions past the header as if skew bytes had already
// been written, so a body can appear longer than the format allows.
type farSeeker struct {
	*scalar.Buffer
	skew int64
}

func (s *farSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := s.Buffer.Seek(offset, whence)
	if err != nil || pos <= 16 {
		return pos, err
	}
	return pos + s.skew, nil
}

func TestEncodeRejectsOversizedBody(t *testing.T) {
	w := &farSeeker{Buffer: scalar.NewBuffer(nil), skew: math.MaxInt32}
	_, err := Encode(w, demoVoice())
	if !errors.Is(err, ErrOverMax) {
		t.Fatalf("expected ErrOverMax, got %v", err)
	}
	if Kind(err) != KindOverMax {
		t.Fatalf("unexpected kind %q", Kind(err))
	}
	declared := int32(binary.LittleEndian.Uint32(w.Bytes()[offDataLen:]))
	if declared != 0 {
		t.Fatalf("data length patched despite overflow: %d", declared)
	}
}

func TestEncodeBufferedMatchesEncode(t *testing.T) {
	var out bytes.Buffer
	if err := EncodeBuffered(&out, demoVoice()); err != nil {
		t.Fatalf("encode buffered: %v", err)
	}
	if !bytes.Equal(out.Bytes(), mustMarshal(t, demoVoice())) {
		t.Fatalf("buffered encoding differs")
	}
}

func TestDecodeNegativeUnitCount(t *testing.T) {
	encoded := mustMarshal(t, NewVoice())
	body := append(encoded[:16:16], 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0x0f)
	_, err := Decode(bytes.NewReader(body))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeNonZeroReservedFields(t *testing.T) {
	encoded := mustMarshal(t, NewVoice())
	encoded[17] = 0x01
	_, err := Decode(bytes.NewReader(encoded))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	encoded := mustMarshal(t, demoVoice())
	for _, n := range []int{0, 5, 14, 20, len(encoded) - 1} {
		_, err := Decode(bytes.NewReader(encoded[:n]))
		if !errors.Is(err, ErrIO) {
			t.Fatalf("truncated at %d: expected ErrIO, got %v", n, err)
		}
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("truncated at %d: expected *IOError, got %T", n, err)
		}
	}
}

func TestDecodeUnknownWaveKind(t *testing.T) {
	_, err := DecodeWaveform(bytes.NewReader([]byte{0x02, 0x00}))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

type bogusWave struct{}

func (bogusWave) Kind() WaveKind  { return WaveKind(9) }
func (bogusWave) clone() Waveform { return bogusWave{} }

func TestEncodeUnknownWaveform(t *testing.T) {
	buf := scalar.NewBuffer(nil)
	if _, err := EncodeWaveform(buf, bogusWave{}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var nilWave *OscillatorWave
	if _, err := EncodeWaveform(buf, nilWave); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for nil wave, got %v", err)
	}
}

func TestDecodeNegativeCoordinateCount(t *testing.T) {
	raw := []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0x0f}
	if _, err := DecodeWaveform(bytes.NewReader(raw)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, KindOK},
		{unsupported(Version + 1), KindUnsupported},
		{invalid("x"), KindInvalid},
		{overMax("unit", 1), KindOverMax},
		{ioFailure("read", errors.New("boom")), KindIO},
		{errors.New("other"), KindUnknown},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	in := demoVoice()
	out := in.Clone()
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("clone differs")
	}
	out.Units[0].Envelope.Points[0].Y = 99
	out.Units[1].Wave.(*CoordinateWave).Points[0].Y = 99
	if in.Units[0].Envelope.Points[0].Y == 99 || in.Units[1].Wave.(*CoordinateWave).Points[0].Y == 99 {
		t.Fatalf("clone shares storage with original")
	}
}

func TestCloneKeepsNilWave(t *testing.T) {
	for _, wave := range []Waveform{(*CoordinateWave)(nil), (*OscillatorWave)(nil)} {
		u := DefaultUnit()
		u.Wave = wave
		out := u.Clone()
		if out.Wave != wave {
			t.Fatalf("clone of %T changed the wave: %#v", wave, out.Wave)
		}
	}
}

func TestScaleVolume(t *testing.T) {
	v := demoVoice()
	v.ScaleVolume(0.5)
	if v.Units[0].Volume != 64 || v.Units[1].Volume != 24 {
		t.Fatalf("unexpected volumes %d, %d", v.Units[0].Volume, v.Units[1].Volume)
	}
}

func TestLint(t *testing.T) {
	if got := Lint(DefaultVoice(), LintOptions{}); len(got) != 0 {
		t.Fatalf("default voice should be clean, got %v", got)
	}

	if got := Lint(NewVoice(), LintOptions{}); len(got) != 1 || got[0].Code != WarnNoUnits {
		t.Fatalf("expected no_units, got %v", got)
	}

	bare := DefaultUnit()
	bare.Wave = nil
	bare.Envelope = nil
	odd := DefaultUnit()
	odd.Envelope = NewEnvelope(-1, EnvelopePoint{X: 10}, EnvelopePoint{X: 5})
	odd.Envelope.TicksPerSecond = 0
	v := NewVoice(bare, odd, DefaultUnit())

	codes := map[string]int{}
	for _, w := range Lint(v, LintOptions{}) {
		codes[w.Code]++
	}
	for _, code := range []string{WarnTooManyUnits, WarnEmptyUnit, WarnTickRate, WarnRelease, WarnEnvelopeOrder} {
		if codes[code] != 1 {
			t.Fatalf("expected one %s warning, got %v", code, codes)
		}
	}

	if got := Lint(v, LintOptions{MaxUnits: 3}); hasCode(got, WarnTooManyUnits) {
		t.Fatalf("max units override ignored: %v", got)
	}
}

func hasCode(ws []Warning, code string) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
