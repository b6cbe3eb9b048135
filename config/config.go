// Package config loads the front end configuration from TOML
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/microdrive"
)

var ErrBadKey = errors.New("invalid key binding")

// Config is the root of the TOML document
// Keys maps a stimulus name to a single character; Drives are inserted at start
type Config struct {
	Log    LogConfig         `toml:"log"`
	Audio  AudioConfig       `toml:"audio"`
	Status StatusConfig      `toml:"status"`
	Keys   map[string]string `toml:"keys"`
	Drives []DriveConfig     `toml:"drive"`
}

// LogConfig controls the debug log file
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
	File  string `toml:"file"`
}

// AudioConfig controls feedback cues
type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// StatusConfig controls the periodic status poll
// ResponseMs is how long the status exchange holds the pump after each request
type StatusConfig struct {
	PollMs     int `toml:"poll_ms"`
	ResponseMs int `toml:"response_ms"`
}

// DriveConfig describes a cartridge inserted at start
type DriveConfig struct {
	Index          int    `toml:"index"` // 1-based, as labelled on the panel
	Name           string `toml:"name"`
	Blocks         int    `toml:"blocks"`
	WriteProtected bool   `toml:"write_protect"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Dir:  "logs",
			File: "mdstatus.log",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.4,
		},
		Status: StatusConfig{
			PollMs:     500,
			ResponseMs: 120,
		},
		Keys: map[string]string{
			"RotateForward":  "l",
			"RotateBackward": "h",
			"InsertBegin":    "i",
			"SaveRequested":  "s",
		},
	}
}

// Load reads path over the defaults
// An empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg, which should already hold defaults, and validates the result
// Tables present in data replace the default keys wholesale
func Parse(data []byte, cfg *Config) error {
	var overlay Config
	md, err := toml.Decode(string(data), &overlay)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if md.IsDefined("log") {
		mergeLog(&cfg.Log, &overlay.Log, md)
	}
	if md.IsDefined("audio", "enabled") {
		cfg.Audio.Enabled = overlay.Audio.Enabled
	}
	if md.IsDefined("audio", "volume") {
		cfg.Audio.Volume = overlay.Audio.Volume
	}
	if md.IsDefined("status", "poll_ms") {
		cfg.Status.PollMs = overlay.Status.PollMs
	}
	if md.IsDefined("status", "response_ms") {
		cfg.Status.ResponseMs = overlay.Status.ResponseMs
	}
	if md.IsDefined("keys") {
		cfg.Keys = overlay.Keys
	}
	if md.IsDefined("drive") {
		cfg.Drives = overlay.Drives
	}

	return cfg.Validate()
}

func mergeLog(dst, src *LogConfig, md toml.MetaData) {
	if md.IsDefined("log", "debug") {
		dst.Debug = src.Debug
	}
	if md.IsDefined("log", "dir") {
		dst.Dir = src.Dir
	}
	if md.IsDefined("log", "file") {
		dst.File = src.File
	}
}

// Validate checks key bindings, drive entries and ranges
func (c *Config) Validate() error {
	var errs []error

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %v out of range [0,1]", c.Audio.Volume))
	}
	if c.Status.PollMs < 0 || c.Status.ResponseMs < 0 {
		errs = append(errs, fmt.Errorf("status timings must not be negative"))
	}
	if c.Status.PollMs > 0 && c.Status.ResponseMs >= c.Status.PollMs {
		errs = append(errs, fmt.Errorf("status response_ms %d must be below poll_ms %d", c.Status.ResponseMs, c.Status.PollMs))
	}

	if _, err := c.KeyMap(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[int]bool)
	for _, d := range c.Drives {
		switch {
		case d.Index < 1 || d.Index > microdrive.NumDrives:
			errs = append(errs, fmt.Errorf("drive index %d out of range [1,%d]", d.Index, microdrive.NumDrives))
		case seen[d.Index]:
			errs = append(errs, fmt.Errorf("drive %d listed twice", d.Index))
		case d.Name == "":
			errs = append(errs, fmt.Errorf("drive %d has no name", d.Index))
		case d.Blocks < 0 || d.Blocks > microdrive.BlockMax:
			errs = append(errs, fmt.Errorf("drive %d blocks %d out of range [0,%d]", d.Index, d.Blocks, microdrive.BlockMax))
		}
		seen[d.Index] = true
	}

	return errors.Join(errs...)
}

// KeyMap resolves the [keys] table into rune -> stimulus
func (c *Config) KeyMap() (map[rune]fsm.Stimulus, error) {
	keys := make(map[rune]fsm.Stimulus, len(c.Keys))
	for name, key := range c.Keys {
		s, ok := gui.StimulusByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown stimulus %q", ErrBadKey, name)
		}
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: %s must be one character, got %q", ErrBadKey, name, key)
		}
		r, _ := utf8.DecodeRuneInString(key)
		if other, dup := keys[r]; dup {
			return nil, fmt.Errorf("%w: %q bound to both %s and %s", ErrBadKey, key, gui.StimulusName(other), name)
		}
		keys[r] = s
	}
	return keys, nil
}
