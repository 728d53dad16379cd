package snap

import (
	"math"

	"design-canvas/internal/logging"
	"design-canvas/internal/scene"
	"design-canvas/pkg/geometry"
)

// Options configures an Engine. Pixel values are screen pixels and are
// converted to world units with the current zoom, so the tolerance on
// screen does not change when zooming.
type Options struct {
	MarginPx float64
	OffsetPx float64
	// Bypass is the modifier that disables snapping while held.
	Bypass scene.Modifier
}

// DefaultOptions returns a 5 px margin, a 6 px guide overhang and Alt as
// the bypass modifier.
func DefaultOptions() Options {
	return Options{MarginPx: 5, OffsetPx: 6, Bypass: scene.ModAlt}
}

// Engine runs candidate generation, resolution and repositioning.
type Engine struct {
	opts Options
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// SetOptions replaces the engine configuration. It must not be called
// while a Snap is running.
func (e *Engine) SetOptions(opts Options) {
	e.opts = opts
}

// UsableZoom reports whether zoom is a positive finite scale.
func UsableZoom(zoom float64) bool {
	return zoom > 0 && !math.IsInf(zoom, 0)
}

// Margin returns the snap tolerance in world units at zoom, or 0 when the
// zoom is not usable.
func (e *Engine) Margin(zoom float64) float64 {
	if !UsableZoom(zoom) {
		return 0
	}
	return e.opts.MarginPx / zoom
}

// Offset returns the guide overhang in world units at zoom, or 0 when the
// zoom is not usable.
func (e *Engine) Offset(zoom float64) float64 {
	if !UsableZoom(zoom) {
		return 0
	}
	return e.opts.OffsetPx / zoom
}

// Bypassed reports whether mods disable snapping.
func (e *Engine) Bypassed(mods scene.Modifier) bool {
	return mods.Has(e.opts.Bypass)
}

// Outcome is the result of one Snap call.
type Outcome struct {
	Resolution Resolution
	Delta      geometry.Point2D
	Lines      []GuideLine
}

// Snap aligns active against the adapter's workspace and siblings. When a
// winner exists on either axis the object's center is moved by the winning
// deltas and its coordinates refreshed before returning. Holding the
// bypass modifier, or a zero, negative or non-finite zoom, returns an
// empty outcome without touching the object.
func (e *Engine) Snap(a scene.Adapter, active scene.Object, mods scene.Modifier) Outcome {
	if active == nil || e.Bypassed(mods) {
		return Outcome{}
	}

	zoom := a.Zoom()
	if !UsableZoom(zoom) {
		logging.Logger().Debug("snap skipped: unusable zoom", "zoom", zoom)
		return Outcome{}
	}
	activeRect, ok := scene.RectOf(active)
	if !ok {
		return Outcome{}
	}
	center := active.CenterPoint()

	cands := Generate(a.Objects(), active, a.Workspace())
	res := Resolve(activeRect, center, cands, e.Margin(zoom))
	out := Outcome{Resolution: res}
	if !res.Snapped() {
		return out
	}

	out.Delta = res.Delta()
	active.SetPositionByOrigin(center.Add(out.Delta), scene.OriginCenter)
	active.SetCoords()

	after, ok := scene.RectOf(active)
	if !ok {
		after = activeRect.Translate(out.Delta)
	}
	out.Lines = GuideLines(res, after, e.Offset(zoom))

	logging.Logger().Debug("snapped",
		"candidates", cands.Len(),
		"dx", out.Delta.X,
		"dy", out.Delta.Y,
		"lines", len(out.Lines))
	return out
}
