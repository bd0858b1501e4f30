package config

import (
	"fmt"
	"os"
	"strings"
)

// Template kinds understood by WriteTemplate.
const (
	KindPtvoicectl = "ptvoicectl"
	KindVoice      = "voice"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindPtvoicectl:
		return ptvoicectlTemplate, nil
	case KindVoice:
		return voiceTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const ptvoicectlTemplate = `# trace | debug | info | warn | error | disabled
log_level = "info"
# node_exporter textfile written after each command; empty disables it
metrics_textfile = ""

[defaults]
# flat | sine | triangle | sawtooth | square
wave = "flat"
# semitones relative to A4
key_semis = 0.0
volume = 128
pan = 64
tuning = 1.0
ticks_per_second = 1000
release = 1
flags = ["wave_loop", "smooth"]

[editor]
max_units = 2
`

const voiceTemplate = `legacy_key = 0

[[units]]
key = 24576
volume = 128
pan = 64
tuning = 1.0
flags = ["wave_loop", "smooth"]

  [units.wave]
  kind = "oscillator"
  overtones = [[1, 128]]

  [units.envelope]
  ticks_per_second = 1000
  release = 1
  points = [[0, 96]]

[[units]]
key = 21504
volume = 64
pan = 64
tuning = 1.0
flags = ["wave_loop"]

  [units.wave]
  kind = "coordinate"
  x_width = 256
  points = [[0, 0], [64, 64], [192, -64]]

  [units.envelope]
  ticks_per_second = 1000
  release = 40
  points = [[0, 0], [25, 128], [400, 64]]
`
