package protocol

import (
	"fmt"
	"math"
)

// DefaultMaxUnits is the most units the official editor will open.
const DefaultMaxUnits = 2

// Warning codes reported by Lint.
const (
	WarnNoUnits       = "no_units"
	WarnTooManyUnits  = "too_many_units"
	WarnEmptyUnit     = "empty_unit"
	WarnTickRate      = "tick_rate"
	WarnEnvelopeOrder = "envelope_order"
	WarnRelease       = "release"
	WarnXWidth        = "x_width"
	WarnTuning        = "tuning"
)

// LintOptions bounds what Lint treats as editor-compatible.
type LintOptions struct {
	// MaxUnits is the unit count above which a warning is raised. Zero means
	// DefaultMaxUnits.
	MaxUnits int
}

// Warning is a structurally valid construct that pxtone tooling may not
// handle well. Unit is -1 for voice-level warnings.
type Warning struct {
	Unit    int
	Code    string
	Message string
}

func (w Warning) String() string {
	if w.Unit < 0 {
		return fmt.Sprintf("voice: %s", w.Message)
	}
	return fmt.Sprintf("unit %d: %s", w.Unit, w.Message)
}

// Lint inspects a decoded or built voice and reports semantic warnings. It
// never rejects anything Encode would accept.
func Lint(v *Voice, opts LintOptions) []Warning {
	if v == nil {
		return nil
	}
	maxUnits := opts.MaxUnits
	if maxUnits <= 0 {
		maxUnits = DefaultMaxUnits
	}

	var out []Warning
	voiceWarn := func(code, format string, args ...any) {
		out = append(out, Warning{Unit: -1, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch n := len(v.Units); {
	case n == 0:
		voiceWarn(WarnNoUnits, "voice has no units")
	case n > maxUnits:
		voiceWarn(WarnTooManyUnits, "%d units, editor opens at most %d", n, maxUnits)
	}

	for i, u := range v.Units {
		out = append(out, lintUnit(i, u)...)
	}
	return out
}

func lintUnit(i int, u Unit) []Warning {
	var out []Warning
	warn := func(code, format string, args ...any) {
		out = append(out, Warning{Unit: i, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if u.Wave == nil && u.Envelope == nil {
		warn(WarnEmptyUnit, "no waveform and no envelope")
	}
	tuning := float64(u.Tuning)
	if math.IsNaN(tuning) || math.IsInf(tuning, 0) || tuning <= 0 {
		warn(WarnTuning, "tuning %v is not a positive finite ratio", u.Tuning)
	}
	if w, ok := u.Wave.(*CoordinateWave); ok && w != nil && w.XWidth <= 0 {
		warn(WarnXWidth, "coordinate x-width %d", w.XWidth)
	}

	env := u.Envelope
	if env == nil {
		return out
	}
	if env.TicksPerSecond <= 0 {
		warn(WarnTickRate, "envelope tick rate %d", env.TicksPerSecond)
	}
	if env.Release < 0 {
		warn(WarnRelease, "negative release %d", env.Release)
	}
	for j := 1; j < len(env.Points); j++ {
		if env.Points[j].X < env.Points[j-1].X {
			warn(WarnEnvelopeOrder, "envelope point %d moves back to x=%d", j, env.Points[j].X)
			break
		}
	}
	return out
}
