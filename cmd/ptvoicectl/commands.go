package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/danmuck/ptvoice/internal/config"
	"github.com/danmuck/ptvoice/internal/observability"
	"github.com/danmuck/ptvoice/internal/protocol"
	"github.com/danmuck/ptvoice/internal/value"
	"github.com/danmuck/ptvoice/internal/voicefile"
)

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s): %s", c.Command.Name, n, c.Command.ArgsUsage)
	}
	return nil
}

func inspectCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	path := c.Args().Get(0)
	loaded, err := voicefile.Load(path)
	if err != nil {
		return err
	}
	out := c.App.Writer
	head := loaded.Header

	fmt.Fprintf(out, "%s %s\n", cyan("voice"), path)
	fmt.Fprintf(out, "  version   %d\n", head.Version)
	lenNote := green("matches")
	if int64(head.DataLen) != loaded.BodyLen() {
		lenNote = yellow(fmt.Sprintf("body is %d bytes", loaded.BodyLen()))
	}
	fmt.Fprintf(out, "  data len  %d (%s)\n", head.DataLen, lenNote)
	fmt.Fprintf(out, "  units     %d\n", len(loaded.Voice.Units))

	for i, u := range loaded.Voice.Units {
		fmt.Fprintf(out, "%s %d\n", cyan("unit"), i)
		fmt.Fprintf(out, "  key       %d (A4%+.2f semis, %.2f Hz)\n", u.Key, u.Key.A4Semis(), u.Key.Hertz())
		left, right := u.Pan.Separate()
		fmt.Fprintf(out, "  volume    %d (%.0f%%)\n", u.Volume, u.Volume.Ratio()*100)
		fmt.Fprintf(out, "  pan       %d (L %d / R %d)\n", u.Pan, left, right)
		fmt.Fprintf(out, "  tuning    %g\n", u.Tuning)
		fmt.Fprintf(out, "  flags     %s\n", describeFlags(u.Flags))
		fmt.Fprintf(out, "  wave      %s\n", describeWave(u.Wave))
		fmt.Fprintf(out, "  envelope  %s\n", describeEnvelope(u.Envelope))
	}

	printWarnings(c, lintVoice(c, loaded.Voice))
	return nil
}

func describeFlags(f protocol.UnitFlags) string {
	names := config.FlagNames(f)
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func describeWave(w protocol.Waveform) string {
	switch wave := w.(type) {
	case nil:
		return "none"
	case *protocol.CoordinateWave:
		if wave == nil {
			return "none"
		}
		return fmt.Sprintf("coordinate, %d points, x-width %d", len(wave.Points), wave.XWidth)
	case *protocol.OscillatorWave:
		if wave == nil {
			return "none"
		}
		return fmt.Sprintf("oscillator, %d overtones", len(wave.Overtones))
	default:
		return fmt.Sprintf("%T", w)
	}
}

func describeEnvelope(env *protocol.Envelope) string {
	if env == nil {
		return "none"
	}
	return fmt.Sprintf("%d points over %.3fs, release %d ticks at %d/s",
		len(env.Points), env.Duration(), env.Release, env.TicksPerSecond)
}

func lintVoice(c *cli.Context, v *protocol.Voice) []protocol.Warning {
	warnings := protocol.Lint(v, protocol.LintOptions{MaxUnits: appConfig(c).Editor.MaxUnits})
	for _, w := range warnings {
		observability.RecordLintWarning(w.Code)
	}
	return warnings
}

func printWarnings(c *cli.Context, warnings []protocol.Warning) {
	out := c.App.Writer
	if len(warnings) == 0 {
		fmt.Fprintf(out, "%s\n", green("no warnings"))
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "%s %s\n", yellow("warning:"), w)
	}
}

func createCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	var voice *protocol.Voice
	if c.Bool("demo") {
		voice = demoVoice()
	} else {
		var err error
		if voice, err = defaultsVoice(appConfig(c).Defaults, c.String("wave"), c.Int("units")); err != nil {
			return err
		}
	}
	return save(c, c.Args().Get(0), voice)
}

// demoVoice is a looping A6 tone layered with an oscillator a fifth above
// that swells in over 96 ticks.
func demoVoice() *protocol.Voice {
	first := protocol.DefaultUnit()
	first.Key = value.KeyA6
	first.Wave = protocol.NewCoordinateWave(protocol.CoordinatePoint{X: 0, Y: 0})

	second := protocol.DefaultUnit()
	second.Key = value.KeyA6 + value.KeyFromSemis(7)
	second.Wave = protocol.NewOscillatorWave(
		protocol.Overtone{Number: 1, Amplitude: 128},
		protocol.Overtone{Number: 2, Amplitude: 64},
		protocol.Overtone{Number: 4, Amplitude: 32},
	)
	second.Envelope = protocol.NewEnvelope(100,
		protocol.EnvelopePoint{X: 0, Y: 0},
		protocol.EnvelopePoint{X: 96, Y: 96},
	)
	return protocol.NewVoice(first, second)
}

func defaultsVoice(d config.UnitDefaults, wave string, n int) (*protocol.Voice, error) {
	if wave != "" {
		d.Wave = strings.ToLower(strings.TrimSpace(wave))
	}
	if n < 0 {
		return nil, fmt.Errorf("create: --units must not be negative, got %d", n)
	}
	voice := protocol.NewVoice()
	for i := 0; i < n; i++ {
		u, err := d.Unit()
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		voice.Units = append(voice.Units, u)
	}
	return voice, nil
}

func scaleVolumeCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	in := c.Args().Get(0)
	loaded, err := voicefile.Load(in)
	if err != nil {
		return err
	}
	factor := c.Float64("factor")
	loaded.Voice.ScaleVolume(float32(factor))

	out := c.String("out")
	if out == "" {
		out = modifiedPath(in)
	}
	log.Info().Str("in", in).Str("out", out).Float64("factor", factor).Msg("scaling unit volumes")
	return save(c, out, loaded.Voice)
}

func modifiedPath(in string) string {
	return filepath.Join(filepath.Dir(in), "modified "+filepath.Base(in))
}

func exportCommand(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	loaded, err := voicefile.Load(c.Args().Get(0))
	if err != nil {
		return err
	}
	out := c.Args().Get(1)
	if err := voicefile.SaveText(out, loaded.Voice); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s\n", green("wrote"), out)
	return nil
}

func importCommand(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	voice, err := voicefile.LoadText(c.Args().Get(0))
	if err != nil {
		return err
	}
	return save(c, c.Args().Get(1), voice)
}

func lintCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	loaded, err := voicefile.Load(c.Args().Get(0))
	if err != nil {
		return err
	}
	warnings := lintVoice(c, loaded.Voice)
	printWarnings(c, warnings)
	if c.Bool("strict") && len(warnings) > 0 {
		return fmt.Errorf("lint: %d warning(s)", len(warnings))
	}
	return nil
}

func save(c *cli.Context, path string, v *protocol.Voice) error {
	n, err := voicefile.Save(path, v)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "%s %s [%s]\n", red("failed"), path, protocol.Kind(err))
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s (%d bytes, %d units)\n", green("wrote"), path, n, len(v.Units))
	return nil
}
