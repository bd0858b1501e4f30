package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/ptvoice/internal/logging"
	"github.com/danmuck/ptvoice/internal/protocol"
)

const (
	// EnvConfigPath overrides the config location when --config is not given.
	EnvConfigPath = "PTVOICECTL_CONFIG"
	// DefaultPath is read from the working directory when present.
	DefaultPath = "ptvoicectl.toml"
)

// Config is the resolved ptvoicectl configuration.
type Config struct {
	LogLevel        string
	MetricsTextfile string
	Defaults        UnitDefaults
	Editor          EditorConfig
}

// UnitDefaults shapes the unit that `create` builds without --demo.
type UnitDefaults struct {
	Wave           string
	KeySemis       float32
	Volume         int32
	Pan            int32
	Tuning         float32
	TicksPerSecond int32
	Release        int32
	Flags          []string
}

type EditorConfig struct {
	MaxUnits int
}

// ptvoicectl.toml key mapping to Config.
type fileConfig struct {
	LogLevel        string `toml:"log_level"`
	MetricsTextfile string `toml:"metrics_textfile"`
	Defaults        struct {
		Wave           string   `toml:"wave"`
		KeySemis       float32  `toml:"key_semis"`
		Volume         int32    `toml:"volume"`
		Pan            int32    `toml:"pan"`
		Tuning         float32  `toml:"tuning"`
		TicksPerSecond int32    `toml:"ticks_per_second"`
		Release        int32    `toml:"release"`
		Flags          []string `toml:"flags"`
	} `toml:"defaults"`
	Editor struct {
		MaxUnits int `toml:"max_units"`
	} `toml:"editor"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Defaults: UnitDefaults{
			Wave:           "flat",
			KeySemis:       0,
			Volume:         128,
			Pan:            64,
			Tuning:         1,
			TicksPerSecond: protocol.DefaultTicksPerSecond,
			Release:        1,
			Flags:          []string{FlagNameWaveLoop, FlagNameSmooth},
		},
		Editor: EditorConfig{MaxUnits: protocol.DefaultMaxUnits},
	}
}

// ResolvePath picks the config path from the flag value, then the
// environment, then DefaultPath. explicit is false only for DefaultPath.
func ResolvePath(flagPath string) (path string, explicit bool) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, true
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, true
	}
	return DefaultPath, false
}

// LoadOrDefault loads path, tolerating a missing file when the path was not
// chosen explicitly.
func LoadOrDefault(path string, explicit bool) (Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Load decodes path and overlays the keys it defines onto DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load ptvoicectl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load ptvoicectl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	if meta.IsDefined("defaults", "wave") {
		cfg.Defaults.Wave = strings.ToLower(strings.TrimSpace(raw.Defaults.Wave))
	}
	if meta.IsDefined("defaults", "key_semis") {
		cfg.Defaults.KeySemis = raw.Defaults.KeySemis
	}
	if meta.IsDefined("defaults", "volume") {
		cfg.Defaults.Volume = raw.Defaults.Volume
	}
	if meta.IsDefined("defaults", "pan") {
		cfg.Defaults.Pan = raw.Defaults.Pan
	}
	if meta.IsDefined("defaults", "tuning") {
		cfg.Defaults.Tuning = raw.Defaults.Tuning
	}
	if meta.IsDefined("defaults", "ticks_per_second") {
		cfg.Defaults.TicksPerSecond = raw.Defaults.TicksPerSecond
	}
	if meta.IsDefined("defaults", "release") {
		cfg.Defaults.Release = raw.Defaults.Release
	}
	if meta.IsDefined("defaults", "flags") {
		cfg.Defaults.Flags = raw.Defaults.Flags
	}
	if meta.IsDefined("editor", "max_units") {
		cfg.Editor.MaxUnits = raw.Editor.MaxUnits
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load ptvoicectl config: %w", err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if _, ok := protocol.WaveShapes[cfg.Defaults.Wave]; !ok {
		return fmt.Errorf("unknown defaults.wave %q", cfg.Defaults.Wave)
	}
	if cfg.Defaults.TicksPerSecond <= 0 {
		return fmt.Errorf("defaults.ticks_per_second must be positive, got %d", cfg.Defaults.TicksPerSecond)
	}
	if cfg.Defaults.Release < 0 {
		return fmt.Errorf("defaults.release must not be negative, got %d", cfg.Defaults.Release)
	}
	if _, err := ParseFlags(cfg.Defaults.Flags); err != nil {
		return fmt.Errorf("defaults.flags: %w", err)
	}
	if cfg.Editor.MaxUnits < 1 {
		return fmt.Errorf("editor.max_units must be at least 1, got %d", cfg.Editor.MaxUnits)
	}
	return nil
}
