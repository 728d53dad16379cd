// Package ruler computes and draws the top and left rulers.
//
// Rulers show world coordinates relative to the workspace origin. Steps are
// picked so that a major tick falls roughly every 80 screen pixels at the
// current zoom, rounded to a 1-2-5 sequence.
package ruler

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// epsilon floors the scale and widens the tick loop end.
	epsilon = 1e-6

	// alignTolerance is how close value/step must be to an integer for a
	// tick to count as aligned to step.
	alignTolerance = 1e-4

	// majorSpacingPx is the target screen distance between major ticks.
	majorSpacingPx = 80
)

// NiceStep rounds raw to 1, 2, 5 or 10 times a power of ten. Non-finite or
// non-positive input yields 1.
func NiceStep(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 1
	}
	exponent := math.Floor(math.Log10(raw))
	pow := math.Pow(10, exponent)
	fraction := raw / pow

	var nice float64
	switch {
	case fraction < 1.5:
		nice = 1
	case fraction < 3:
		nice = 2
	case fraction < 7:
		nice = 5
	default:
		nice = 10
	}
	return nice * pow
}

// Steps returns the major and minor step in world units for the given
// world-units-per-screen-pixel ratio.
func Steps(worldPerPx float64) (major, minor float64) {
	major = NiceStep(worldPerPx * majorSpacingPx)
	return major, major / 10
}

// Class ranks a tick.
type Class int

const (
	Minor Class = iota
	Mid
	Major
)

func (c Class) String() string {
	switch c {
	case Major:
		return "major"
	case Mid:
		return "mid"
	default:
		return "minor"
	}
}

// lengthFactor returns the tick length as a fraction of the ruler thickness.
func (c Class) lengthFactor() float64 {
	switch c {
	case Major:
		return 0.55
	case Mid:
		return 0.4
	default:
		return 0.25
	}
}

// Tick is one ruler mark. Value is relative to the workspace origin;
// Screen is in CSS pixels along the ruler.
type Tick struct {
	Value  float64
	Class  Class
	Screen float64
}

// Label returns the text shown next to a major tick.
func (t Tick) Label() string {
	return formatLabel(t.Value)
}

// AxisParams describes one ruler axis.
type AxisParams struct {
	Scale  float64 // viewport scale on this axis
	Offset float64 // viewport translation on this axis, screen pixels
	Origin float64 // workspace origin on this axis, world units
	Length float64 // ruler length, CSS pixels
}

// Usable reports whether the axis scale is positive and finite.
func (p AxisParams) Usable() bool {
	return p.Scale > 0 && !math.IsInf(p.Scale, 0)
}

// isMultiple reports whether value is aligned to step.
func isMultiple(value, step float64) bool {
	if step == 0 {
		return false
	}
	ratio := value / step
	return scalar.EqualWithinAbs(ratio, math.Round(ratio), alignTolerance)
}

// Ticks appends the visible ticks of axis p to buf[:0] and returns it.
// Ticks further than one pixel outside [0, Length] are dropped. An axis
// whose scale is not usable has no ticks.
func Ticks(p AxisParams, buf []Tick) []Tick {
	buf = buf[:0]
	if !p.Usable() {
		return buf
	}
	scale := p.Scale
	worldPerPx := 1 / math.Max(epsilon, scale)
	major, minor := Steps(worldPerPx)

	startRel := (0-p.Offset)*worldPerPx - p.Origin
	endRel := (p.Length-p.Offset)*worldPerPx - p.Origin
	first := math.Floor(startRel/minor) * minor
	last := math.Ceil(endRel/minor) * minor
	if !isFinite(first) || !isFinite(last) || first+minor == first {
		return buf
	}

	for value := first; value <= last+epsilon; value += minor {
		screen := (p.Origin+value)*scale + p.Offset
		if screen < -1 || screen > p.Length+1 {
			continue
		}
		class := Minor
		switch {
		case isMultiple(value, major):
			class = Major
		case isMultiple(value, major/2):
			class = Mid
		}
		buf = append(buf, Tick{Value: value, Class: class, Screen: screen})
	}
	return buf
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatLabel renders a tick value as a whole number.
func formatLabel(v float64) string {
	return strconv.Itoa(int(roundHalfUp(v)))
}

// roundHalfUp rounds half-way cases towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
