package protocol

import "github.com/danmuck/ptvoice/internal/value"

// Signature opens every ptvoice block.
var Signature = [8]byte{'P', 'T', 'V', 'O', 'I', 'C', 'E', '-'}

// Version is the newest format version understood, and the one written.
const Version int32 = 20060111

// Header is the fixed-width prefix of a ptvoice block.
type Header struct {
	Signature [8]byte
	Version   int32
	// DataLen is the declared length of everything after the header. pxtone
	// never verifies it, so neither does Decode.
	DataLen int32
}

// Voice is a synthesized instrument made of one or more units.
type Voice struct {
	// LegacyKey was the voice-wide key in old pxtone versions; units carry
	// their own key now and this is written as 0.
	LegacyKey int32
	// Units play together in order. The official editor refuses more than
	// two, though playback renders all of them.
	Units []Unit
}

// UnitFlags configures playback of a unit's waveform.
type UnitFlags uint32

const (
	// FlagWaveLoop repeats the waveform for the note's full duration.
	FlagWaveLoop UnitFlags = 1 << iota
	// FlagSmooth adds a slight fade-out on release.
	FlagSmooth
	// FlagBeatFit stretches the waveform to one beat.
	FlagBeatFit

	unitFlagsKnown    = FlagWaveLoop | FlagSmooth | FlagBeatFit
	unitFlagsReserved = ^unitFlagsKnown
)

// Has reports whether every bit of f is set.
func (u UnitFlags) Has(f UnitFlags) bool {
	return u&f == f
}

// dataFlags marks which optional sub-blocks follow a unit.
type dataFlags uint32

const (
	dataFlagWave dataFlags = 1 << iota
	dataFlagEnvelope

	dataFlagsKnown    = dataFlagWave | dataFlagEnvelope
	dataFlagsReserved = ^dataFlagsKnown
)

// Unit is one synthesis channel of a voice.
type Unit struct {
	Key    value.Key
	Volume value.Volume
	Pan    value.PanVolume
	Tuning value.Tuning
	Flags  UnitFlags
	// Wave is nil when the unit has no waveform block.
	Wave Waveform
	// Envelope is nil when the unit has no envelope block.
	Envelope *Envelope
}

// WaveKind is the wire discriminant of a Waveform.
type WaveKind int32

const (
	WaveCoordinate WaveKind = 0
	WaveOscillator WaveKind = 1
)

func (k WaveKind) String() string {
	switch k {
	case WaveCoordinate:
		return "coordinate"
	case WaveOscillator:
		return "oscillator"
	default:
		return "unknown"
	}
}

// Waveform is either a *CoordinateWave or an *OscillatorWave.
type Waveform interface {
	Kind() WaveKind
	clone() Waveform
}

// CoordinatePoint is one drawn waveform vertex.
type CoordinatePoint struct {
	X uint8
	Y int8
}

// CoordinateWave is a waveform drawn from points.
type CoordinateWave struct {
	Points []CoordinatePoint
	// XWidth is the horizontal extent of the drawing, usually 256.
	XWidth int32
}

func (*CoordinateWave) Kind() WaveKind { return WaveCoordinate }

func (w *CoordinateWave) clone() Waveform {
	if w == nil {
		return w
	}
	out := *w
	out.Points = append([]CoordinatePoint(nil), w.Points...)
	return &out
}

// Overtone is one sine harmonic and its amplitude.
type Overtone struct {
	Number    int32
	Amplitude int32
}

// OscillatorWave is a waveform summed from sine overtones.
type OscillatorWave struct {
	Overtones []Overtone
}

func (*OscillatorWave) Kind() WaveKind { return WaveOscillator }

func (w *OscillatorWave) clone() Waveform {
	if w == nil {
		return w
	}
	return &OscillatorWave{Overtones: append([]Overtone(nil), w.Overtones...)}
}

// EnvelopePoint is an absolute (time, volume) vertex. X is in ticks.
type EnvelopePoint struct {
	X int32
	Y int32
}

// Envelope shapes a note's volume. The last point is sustained while the
// note is held; Release is the fade-out duration in ticks.
type Envelope struct {
	Points         []EnvelopePoint
	Release        int32
	TicksPerSecond int32
}
