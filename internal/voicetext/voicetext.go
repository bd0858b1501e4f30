// Package voicetext converts voices to and from an editable TOML document.
//
// Units are written as [[units]] tables with optional [units.wave] and
// [units.envelope] sub-tables. Coordinate and envelope points are [x, y]
// pairs; overtones are [number, amplitude] pairs.
package voicetext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/ptvoice/internal/config"
	"github.com/danmuck/ptvoice/internal/protocol"
	"github.com/danmuck/ptvoice/internal/value"
)

var ErrDocument = errors.New("voicetext: invalid voice document")

type Document struct {
	LegacyKey int32     `toml:"legacy_key"`
	Units     []UnitDoc `toml:"units"`
}

type UnitDoc struct {
	Key      int32        `toml:"key" comment:"pitch key, A4 = 24576 (96 * 256)"`
	Volume   int32        `toml:"volume" comment:"128 = 100%"`
	Pan      int32        `toml:"pan" comment:"0 left, 64 center, 128 right"`
	Tuning   float32      `toml:"tuning"`
	Flags    []string     `toml:"flags,omitempty"`
	Wave     *WaveDoc     `toml:"wave,omitempty"`
	Envelope *EnvelopeDoc `toml:"envelope,omitempty"`
}

type WaveDoc struct {
	Kind      string     `toml:"kind"`
	XWidth    int32      `toml:"x_width,omitempty"`
	Points    [][2]int32 `toml:"points,omitempty"`
	Overtones [][2]int32 `toml:"overtones,omitempty"`
}

type EnvelopeDoc struct {
	TicksPerSecond int32      `toml:"ticks_per_second"`
	Release        int32      `toml:"release"`
	Points         [][2]int32 `toml:"points,omitempty"`
}

// Marshal renders v as a TOML document.
func Marshal(v *protocol.Voice) ([]byte, error) {
	doc, err := FromVoice(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("voicetext: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a TOML document into a voice. Unknown keys are rejected.
func Unmarshal(data []byte) (*protocol.Voice, error) {
	return Decode(bytes.NewReader(data))
}

func Decode(r io.Reader) (*protocol.Voice, error) {
	var doc Document
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, describeDecodeError(err)
	}
	return doc.Voice()
}

func describeDecodeError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Errorf("%w: line %d column %d: %s", ErrDocument, row, col, derr.Error())
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		return fmt.Errorf("%w: unknown keys:\n%s", ErrDocument, serr.String())
	}
	return fmt.Errorf("%w: %v", ErrDocument, err)
}

// FromVoice converts v into its document form.
func FromVoice(v *protocol.Voice) (Document, error) {
	if v == nil {
		return Document{}, fmt.Errorf("%w: nil voice", ErrDocument)
	}
	doc := Document{LegacyKey: v.LegacyKey}
	for i, u := range v.Units {
		ud := UnitDoc{
			Key:    int32(u.Key),
			Volume: int32(u.Volume),
			Pan:    int32(u.Pan),
			Tuning: float32(u.Tuning),
			Flags:  config.FlagNames(u.Flags),
		}
		if u.Wave != nil {
			wd, err := waveDoc(u.Wave)
			if err != nil {
				return Document{}, fmt.Errorf("unit %d: %w", i, err)
			}
			ud.Wave = wd
		}
		if env := u.Envelope; env != nil {
			ed := &EnvelopeDoc{TicksPerSecond: env.TicksPerSecond, Release: env.Release}
			for _, p := range env.Points {
				ed.Points = append(ed.Points, [2]int32{p.X, p.Y})
			}
			ud.Envelope = ed
		}
		doc.Units = append(doc.Units, ud)
	}
	return doc, nil
}

func waveDoc(w protocol.Waveform) (*WaveDoc, error) {
	switch wave := w.(type) {
	case *protocol.CoordinateWave:
		if wave == nil {
			return nil, fmt.Errorf("%w: nil coordinate wave", ErrDocument)
		}
		wd := &WaveDoc{Kind: protocol.WaveCoordinate.String(), XWidth: wave.XWidth}
		for _, p := range wave.Points {
			wd.Points = append(wd.Points, [2]int32{int32(p.X), int32(p.Y)})
		}
		return wd, nil
	case *protocol.OscillatorWave:
		if wave == nil {
			return nil, fmt.Errorf("%w: nil oscillator wave", ErrDocument)
		}
		wd := &WaveDoc{Kind: protocol.WaveOscillator.String()}
		for _, o := range wave.Overtones {
			wd.Overtones = append(wd.Overtones, [2]int32{o.Number, o.Amplitude})
		}
		return wd, nil
	default:
		return nil, fmt.Errorf("%w: unsupported waveform %T", ErrDocument, w)
	}
}

// Voice converts the document back into a voice, checking ranges the TOML
// types cannot express.
func (d Document) Voice() (*protocol.Voice, error) {
	v := &protocol.Voice{LegacyKey: d.LegacyKey}
	for i, ud := range d.Units {
		u, err := ud.unit()
		if err != nil {
			return nil, fmt.Errorf("%w: unit %d: %v", ErrDocument, i, err)
		}
		v.Units = append(v.Units, u)
	}
	return v, nil
}

func (ud UnitDoc) unit() (protocol.Unit, error) {
	flags, err := config.ParseFlags(ud.Flags)
	if err != nil {
		return protocol.Unit{}, err
	}
	u := protocol.Unit{
		Key:    value.Key(ud.Key),
		Volume: value.Volume(ud.Volume),
		Pan:    value.PanVolume(ud.Pan),
		Tuning: value.Tuning(ud.Tuning),
		Flags:  flags,
	}
	if ud.Wave != nil {
		if u.Wave, err = ud.Wave.waveform(); err != nil {
			return protocol.Unit{}, err
		}
	}
	if ed := ud.Envelope; ed != nil {
		env := &protocol.Envelope{TicksPerSecond: ed.TicksPerSecond, Release: ed.Release}
		for _, p := range ed.Points {
			env.Points = append(env.Points, protocol.EnvelopePoint{X: p[0], Y: p[1]})
		}
		u.Envelope = env
	}
	return u, nil
}

func (wd WaveDoc) waveform() (protocol.Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(wd.Kind)) {
	case protocol.WaveCoordinate.String():
		if len(wd.Overtones) > 0 {
			return nil, errors.New("coordinate wave with overtones")
		}
		wave := &protocol.CoordinateWave{XWidth: wd.XWidth}
		for j, p := range wd.Points {
			if p[0] < 0 || p[0] > math.MaxUint8 || p[1] < math.MinInt8 || p[1] > math.MaxInt8 {
				return nil, fmt.Errorf("coordinate point %d (%d, %d) out of range", j, p[0], p[1])
			}
			wave.Points = append(wave.Points, protocol.CoordinatePoint{X: uint8(p[0]), Y: int8(p[1])})
		}
		return wave, nil
	case protocol.WaveOscillator.String():
		if len(wd.Points) > 0 {
			return nil, errors.New("oscillator wave with points")
		}
		wave := &protocol.OscillatorWave{}
		for _, o := range wd.Overtones {
			wave.Overtones = append(wave.Overtones, protocol.Overtone{Number: o[0], Amplitude: o[1]})
		}
		return wave, nil
	default:
		return nil, fmt.Errorf("unknown wave kind %q", wd.Kind)
	}
}
