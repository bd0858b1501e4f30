package protocol

import "github.com/danmuck/ptvoice/internal/value"

const (
	DefaultXWidth         int32 = 256
	DefaultTicksPerSecond int32 = 1000
)

// NewVoice returns a voice over the given units with a zero legacy key.
func NewVoice(units ...Unit) *Voice {
	return &Voice{Units: units}
}

// DefaultVoice returns a voice with a single default unit.
func DefaultVoice() *Voice {
	return NewVoice(DefaultUnit())
}

// DefaultUnit returns an A4 unit at full volume, centered, looping the
// default coordinate wave with the default envelope.
func DefaultUnit() Unit {
	return Unit{
		Key:      value.KeyA4,
		Volume:   value.VolumeFull,
		Pan:      value.PanCenter,
		Tuning:   value.TuningNone,
		Flags:    FlagWaveLoop | FlagSmooth,
		Wave:     DefaultWave(),
		Envelope: DefaultEnvelope(),
	}
}

// NewCoordinateWave builds a drawn waveform with the default x-width.
func NewCoordinateWave(points ...CoordinatePoint) *CoordinateWave {
	return &CoordinateWave{Points: points, XWidth: DefaultXWidth}
}

// NewOscillatorWave builds a waveform from (overtone, amplitude) pairs.
func NewOscillatorWave(overtones ...Overtone) *OscillatorWave {
	return &OscillatorWave{Overtones: overtones}
}

// DefaultWave is a flat single-point coordinate wave.
func DefaultWave() *CoordinateWave {
	return NewCoordinateWave(CoordinatePoint{0, 0})
}

// DefaultSine is a single fundamental overtone.
func DefaultSine() *OscillatorWave {
	return NewOscillatorWave(Overtone{Number: 1, Amplitude: 128})
}

// DefaultTriangle is a three-point triangle drawing.
func DefaultTriangle() *CoordinateWave {
	return NewCoordinateWave(
		CoordinatePoint{0, 0},
		CoordinatePoint{64, 64},
		CoordinatePoint{192, -64},
	)
}

// DefaultSawtooth is a ramp falling from high to low across the cycle.
func DefaultSawtooth() *CoordinateWave {
	return NewCoordinateWave(
		CoordinatePoint{0, 0},
		CoordinatePoint{0, 32},
		CoordinatePoint{255, -32},
	)
}

// DefaultSquare is a half-cycle high, half-cycle low drawing.
func DefaultSquare() *CoordinateWave {
	return NewCoordinateWave(
		CoordinatePoint{0, 0},
		CoordinatePoint{0, 32},
		CoordinatePoint{128, 32},
		CoordinatePoint{128, -32},
		CoordinatePoint{255, -32},
	)
}

// WaveShapes maps shape names accepted by configuration to constructors.
var WaveShapes = map[string]func() Waveform{
	"flat":     func() Waveform { return DefaultWave() },
	"sine":     func() Waveform { return DefaultSine() },
	"triangle": func() Waveform { return DefaultTriangle() },
	"sawtooth": func() Waveform { return DefaultSawtooth() },
	"square":   func() Waveform { return DefaultSquare() },
}

// NewEnvelope builds an envelope at the default tick rate.
func NewEnvelope(release int32, points ...EnvelopePoint) *Envelope {
	return &Envelope{
		Points:         points,
		Release:        release,
		TicksPerSecond: DefaultTicksPerSecond,
	}
}

// DefaultEnvelope holds volume 96 from the start with a 1-tick release.
func DefaultEnvelope() *Envelope {
	return NewEnvelope(1, EnvelopePoint{X: 0, Y: 96})
}

// Clone deep-copies the voice.
func (v *Voice) Clone() *Voice {
	out := &Voice{LegacyKey: v.LegacyKey}
	if v.Units != nil {
		out.Units = make([]Unit, len(v.Units))
		for i, u := range v.Units {
			out.Units[i] = u.Clone()
		}
	}
	return out
}

// Clone deep-copies the unit, including its optional sub-blocks.
func (u Unit) Clone() Unit {
	out := u
	if u.Wave != nil {
		out.Wave = u.Wave.clone()
	}
	if u.Envelope != nil {
		env := *u.Envelope
		env.Points = append([]EnvelopePoint(nil), u.Envelope.Points...)
		out.Envelope = &env
	}
	return out
}

// ScaleVolume multiplies every unit's volume by factor.
func (v *Voice) ScaleVolume(factor float32) {
	for i := range v.Units {
		v.Units[i].Volume = v.Units[i].Volume.Scale(factor)
	}
}
