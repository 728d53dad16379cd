// Package colorutil provides shared colors and color parsing for the editor overlays.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	// GuideRed is rgba(239, 68, 68, 0.95).
	GuideRed = color.NRGBA{R: 239, G: 68, B: 68, A: 242}

	// Slate is rgba(100, 116, 139, 0.9), used for major ticks and labels.
	Slate = color.NRGBA{R: 100, G: 116, B: 139, A: 230}

	// SlateFaint is rgba(100, 116, 139, 0.55), used for mid and minor ticks.
	SlateFaint = color.NRGBA{R: 100, G: 116, B: 139, A: 140}

	// Paper is the workspace fill.
	Paper = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	// Backdrop is the area around the workspace.
	Backdrop = color.NRGBA{R: 241, G: 245, B: 249, A: 255}

	// RulerBackground is the ruler strip fill.
	RulerBackground = color.NRGBA{R: 248, G: 250, B: 252, A: 255}
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" into a non-premultiplied color.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("colorutil: invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colorutil: invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats c as "#rrggbbaa".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
