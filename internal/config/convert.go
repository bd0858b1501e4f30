package config

import (
	"fmt"
	"strings"

	"github.com/danmuck/ptvoice/internal/protocol"
	"github.com/danmuck/ptvoice/internal/value"
)

// Unit flag names shared by the config file and the voice text form.
const (
	FlagNameWaveLoop = "wave_loop"
	FlagNameSmooth   = "smooth"
	FlagNameBeatFit  = "beat_fit"
)

var flagNames = []struct {
	name string
	flag protocol.UnitFlags
}{
	{FlagNameWaveLoop, protocol.FlagWaveLoop},
	{FlagNameSmooth, protocol.FlagSmooth},
	{FlagNameBeatFit, protocol.FlagBeatFit},
}

// ParseFlags maps flag names onto UnitFlags.
func ParseFlags(names []string) (protocol.UnitFlags, error) {
	var out protocol.UnitFlags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, f := range flagNames {
			if f.name == name {
				out |= f.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown unit flag %q", raw)
		}
	}
	return out, nil
}

// FlagNames lists the names of the flags set in f, in bit order.
func FlagNames(f protocol.UnitFlags) []string {
	var out []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

// Unit builds the configured default unit.
func (d UnitDefaults) Unit() (protocol.Unit, error) {
	shape, ok := protocol.WaveShapes[d.Wave]
	if !ok {
		return protocol.Unit{}, fmt.Errorf("unknown wave shape %q", d.Wave)
	}
	flags, err := ParseFlags(d.Flags)
	if err != nil {
		return protocol.Unit{}, err
	}
	env := protocol.DefaultEnvelope()
	env.TicksPerSecond = d.TicksPerSecond
	env.Release = d.Release

	return protocol.Unit{
		Key:      value.KeyFromA4Semis(d.KeySemis),
		Volume:   value.Volume(d.Volume),
		Pan:      value.PanVolume(d.Pan),
		Tuning:   value.Tuning(d.Tuning),
		Flags:    flags,
		Wave:     shape(),
		Envelope: env,
	}, nil
}
