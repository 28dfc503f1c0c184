package gesturesound

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables for recognizers, logging and the run loop.
type Config struct {
	Tap    TapConfig
	Drag   PriorityConfig
	Scale  PriorityConfig
	Rotate PriorityConfig
	Log    LogConfig
	Window WindowConfig
}

// TapConfig configures tap recognition.
type TapConfig struct {
	Radius   float64 // click tolerance in screen pixels
	Priority int
}

// PriorityConfig configures a recognizer's lock priority.
type PriorityConfig struct {
	Priority int
}

// LogConfig selects the log level (debug, info, warn, error) and format
// (text, json).
type LogConfig struct {
	Level  string
	Format string
}

// WindowConfig configures the window opened by Run.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	TPS    int // update ticks per second
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Tap:    TapConfig{Radius: DefaultTapRadius, Priority: DefaultTapPriority},
		Drag:   PriorityConfig{Priority: DefaultDragPriority},
		Scale:  PriorityConfig{Priority: DefaultScalePriority},
		Rotate: PriorityConfig{Priority: DefaultRotatePriority},
		Log:    LogConfig{Level: "info", Format: "text"},
		Window: WindowConfig{Title: "gesturesound", Width: 800, Height: 600, TPS: 60},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig parses TOML data on top of DefaultConfig.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// WriteTo encodes the configuration as TOML.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return 0, fmt.Errorf("encode config: %w", err)
	}
	return buf.WriteTo(w)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Tap.Radius < 0 {
		return fmt.Errorf("tap radius must be >= 0, got %v", c.Tap.Radius)
	}
	prios := []struct {
		name string
		v    int
	}{
		{"tap", c.Tap.Priority},
		{"drag", c.Drag.Priority},
		{"scale", c.Scale.Priority},
		{"rotate", c.Rotate.Priority},
	}
	for _, p := range prios {
		if p.v <= 0 {
			return fmt.Errorf("%s priority must be > 0, got %d", p.name, p.v)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window tps must be > 0, got %d", c.Window.TPS)
	}
	return nil
}

// withDefaults returns c with every unset or out-of-range field replaced by
// its DefaultConfig value. A zero tap radius counts as unset.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Tap.Radius <= 0 {
		c.Tap.Radius = d.Tap.Radius
	}
	if c.Tap.Priority <= 0 {
		c.Tap.Priority = d.Tap.Priority
	}
	if c.Drag.Priority <= 0 {
		c.Drag.Priority = d.Drag.Priority
	}
	if c.Scale.Priority <= 0 {
		c.Scale.Priority = d.Scale.Priority
	}
	if c.Rotate.Priority <= 0 {
		c.Rotate.Priority = d.Rotate.Priority
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = d.Window.Width, d.Window.Height
	}
	if c.Window.TPS <= 0 {
		c.Window.TPS = d.Window.TPS
	}
	return c
}
