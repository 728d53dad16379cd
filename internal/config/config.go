// Package config loads the editor configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"strings"

	"design-canvas/internal/logging"
	"design-canvas/internal/scene"
	"design-canvas/pkg/colorutil"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the full editor configuration.
type Config struct {
	Guides    Guides    `toml:"guides"`
	Rulers    Rulers    `toml:"rulers"`
	Workspace Workspace `toml:"workspace"`
	Viewport  Viewport  `toml:"viewport"`
}

// Guides configures snapping and the guide overlay.
type Guides struct {
	Enabled        bool    `toml:"enabled"`
	MarginPx       float64 `toml:"margin_px"`
	OffsetPx       float64 `toml:"offset_px"`
	LineWidth      float64 `toml:"line_width"`
	Color          string  `toml:"color"`
	BypassModifier string  `toml:"bypass_modifier"`
}

// Rulers configures the ruler strips.
type Rulers struct {
	Enabled    bool    `toml:"enabled"`
	Thickness  float64 `toml:"thickness"`
	FontSize   float64 `toml:"font_size"`
	TickColor  string  `toml:"tick_color"`
	MinorColor string  `toml:"minor_color"`
	TextColor  string  `toml:"text_color"`
}

// Workspace is the size of the design area in world units.
type Workspace struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Viewport holds the initial view.
type Viewport struct {
	Zoom float64 `toml:"zoom"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Guides: Guides{
			Enabled:        true,
			MarginPx:       5,
			OffsetPx:       6,
			LineWidth:      1,
			Color:          colorutil.Hex(colorutil.GuideRed),
			BypassModifier: "alt",
		},
		Rulers: Rulers{
			Enabled:    true,
			Thickness:  24,
			FontSize:   11,
			TickColor:  colorutil.Hex(colorutil.Slate),
			MinorColor: colorutil.Hex(colorutil.SlateFaint),
			TextColor:  colorutil.Hex(colorutil.Slate),
		},
		Workspace: Workspace{Width: 900, Height: 1200},
		Viewport:  Viewport{Zoom: 1},
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file yields the defaults. Unknown keys are logged and ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Logger().Debug("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data), cfg)
}

// Parse decodes TOML text over base and validates the result.
func Parse(data string, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return base, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logging.Logger().Warn("unknown config keys", "keys", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges, colors and the bypass modifier.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}
	positive("guides.margin_px", c.Guides.MarginPx)
	positive("guides.line_width", c.Guides.LineWidth)
	positive("rulers.thickness", c.Rulers.Thickness)
	positive("rulers.font_size", c.Rulers.FontSize)
	positive("workspace.width", c.Workspace.Width)
	positive("workspace.height", c.Workspace.Height)
	positive("viewport.zoom", c.Viewport.Zoom)
	if c.Guides.OffsetPx < 0 {
		errs = append(errs, fmt.Errorf("%w: guides.offset_px must not be negative, got %v", ErrInvalid, c.Guides.OffsetPx))
	}

	for name, hex := range map[string]string{
		"guides.color":       c.Guides.Color,
		"rulers.tick_color":  c.Rulers.TickColor,
		"rulers.minor_color": c.Rulers.MinorColor,
		"rulers.text_color":  c.Rulers.TextColor,
	} {
		if _, err := colorutil.ParseHex(hex); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err))
		}
	}
	if _, err := scene.ParseModifier(c.Guides.BypassModifier); err != nil {
		errs = append(errs, fmt.Errorf("%w: guides.bypass_modifier: %v", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// Bypass returns the parsed bypass modifier. It falls back to Alt for a
// config that has not been validated.
func (g Guides) Bypass() scene.Modifier {
	m, err := scene.ParseModifier(g.BypassModifier)
	if err != nil {
		return scene.ModAlt
	}
	return m
}

// mustColor parses hex, falling back to fallback.
func mustColor(hex string, fallback color.NRGBA) color.NRGBA {
	c, err := colorutil.ParseHex(hex)
	if err != nil {
		return fallback
	}
	return c
}

// LineColor returns the guide color.
func (g Guides) LineColor() color.NRGBA {
	return mustColor(g.Color, colorutil.GuideRed)
}

// Colors returns the tick, minor tick and label colors.
func (r Rulers) Colors() (tick, minor, text color.NRGBA) {
	return mustColor(r.TickColor, colorutil.Slate),
		mustColor(r.MinorColor, colorutil.SlateFaint),
		mustColor(r.TextColor, colorutil.Slate)
}
