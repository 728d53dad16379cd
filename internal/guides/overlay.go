// Package guides draws the ephemeral alignment guides shown while an object
// is dragged.
//
// The overlay lives on its own surface above the scene. It is cleared before
// every scene repaint and the pending guide lines are drawn, then drained,
// right after it; releasing the pointer clears everything and asks for one
// more repaint.
package guides

import (
	"image/color"

	"design-canvas/internal/logging"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/internal/surface"
	"design-canvas/pkg/colorutil"
	"design-canvas/pkg/geometry"
)

// Options controls guide line styling.
type Options struct {
	LineWidth float64 // CSS pixels
	Color     color.Color
}

// DefaultOptions returns 1 px red guides.
func DefaultOptions() Options {
	return Options{LineWidth: 1, Color: colorutil.GuideRed}
}

// gesture holds the state captured once per drag.
type gesture struct {
	viewport geometry.AffineTransform
	active   bool
}

// toScreen maps a world point with the gesture's viewport, or returns it
// unchanged when no gesture has been captured.
func (g gesture) toScreen(x, y float64) (float64, float64) {
	if !g.active {
		return x, y
	}
	return g.viewport.ApplyX(x), g.viewport.ApplyY(y)
}

// Overlay couples the snapping engine to the scene's event stream and
// paints its guide lines.
type Overlay struct {
	adapter scene.Adapter
	engine  *snap.Engine
	surface *surface.Surface
	opts    Options

	subs    []scene.Subscription
	gesture gesture

	vertical   []snap.GuideLine
	horizontal []snap.GuideLine

	onSnap func(snap.Outcome)
}

// New creates a disabled overlay drawing onto surf.
func New(a scene.Adapter, engine *snap.Engine, surf *surface.Surface, opts Options) *Overlay {
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}
	if opts.Color == nil {
		opts.Color = colorutil.GuideRed
	}
	return &Overlay{
		adapter: a,
		engine:  engine,
		surface: surf,
		opts:    opts,
	}
}

// OnSnap registers a callback run after every resolved move, including
// moves that did not snap.
func (o *Overlay) OnSnap(fn func(snap.Outcome)) {
	o.onSnap = fn
}

// Surface returns the overlay surface.
func (o *Overlay) Surface() *surface.Surface {
	return o.surface
}

// Enabled reports whether the overlay handlers are installed.
func (o *Overlay) Enabled() bool {
	return len(o.subs) > 0
}

// Pending returns the number of guide lines waiting for the next
// after-render notification.
func (o *Overlay) Pending() int {
	return len(o.vertical) + len(o.horizontal)
}

// Enable installs the scene handlers. Calling it twice is a no-op.
func (o *Overlay) Enable() {
	if o.Enabled() {
		return
	}
	a := o.adapter
	o.subs = append(o.subs,
		a.On(scene.EventMouseDown, o.handleMouseDown),
		a.On(scene.EventBeforeRender, o.handleBeforeRender),
		a.On(scene.EventAfterRender, o.handleAfterRender),
		a.On(scene.EventObjectMoving, o.handleMoving),
		a.On(scene.EventMouseUp, o.handleMouseUp),
	)
	logging.Logger().Debug("guides enabled")
}

// Disable removes every handler, drops pending lines, clears the overlay
// and requests a repaint.
func (o *Overlay) Disable() {
	if !o.Enabled() {
		return
	}
	for _, sub := range o.subs {
		o.adapter.Off(sub)
	}
	o.subs = nil
	o.reset()
	o.adapter.RequestRenderAll()
	logging.Logger().Debug("guides disabled")
}

func (o *Overlay) reset() {
	o.drain()
	o.gesture = gesture{}
	o.surface.Clear()
}

func (o *Overlay) drain() {
	o.vertical = o.vertical[:0]
	o.horizontal = o.horizontal[:0]
}

func (o *Overlay) handleMouseDown(scene.Event) {
	o.gesture = gesture{viewport: o.adapter.ViewportTransform(), active: true}
}

func (o *Overlay) handleBeforeRender(scene.Event) {
	o.surface.Clear()
}

func (o *Overlay) handleAfterRender(scene.Event) {
	for i := len(o.vertical) - 1; i >= 0; i-- {
		l := o.vertical[i]
		o.line(l.Value, l.Start, l.Value, l.End)
	}
	for i := len(o.horizontal) - 1; i >= 0; i-- {
		l := o.horizontal[i]
		o.line(l.Start, l.Value, l.End, l.Value)
	}
	o.drain()
}

// line strokes a world-space segment, half-pixel aligned for a crisp 1 px
// stroke.
func (o *Overlay) line(x1, y1, x2, y2 float64) {
	sx1, sy1 := o.gesture.toScreen(x1, y1)
	sx2, sy2 := o.gesture.toScreen(x2, y2)
	o.surface.Line(sx1+0.5, sy1+0.5, sx2+0.5, sy2+0.5, o.opts.LineWidth, o.opts.Color)
}

func (o *Overlay) handleMoving(ev scene.Event) {
	target := ev.Target
	if target == nil || !target.Selectable() || target == o.adapter.Workspace() {
		return
	}
	if !o.adapter.Dragging() {
		return
	}
	if !o.gesture.active {
		// Drag started before the overlay was enabled.
		o.handleMouseDown(ev)
	}

	if o.engine.Bypassed(ev.Modifiers) {
		o.drain()
		return
	}

	out := o.engine.Snap(o.adapter, target, ev.Modifiers)
	o.drain()
	for _, l := range out.Lines {
		if l.Axis == snap.Vertical {
			o.vertical = append(o.vertical, l)
		} else {
			o.horizontal = append(o.horizontal, l)
		}
	}
	if o.onSnap != nil {
		o.onSnap(out)
	}
}

func (o *Overlay) handleMouseUp(scene.Event) {
	o.reset()
	o.adapter.RequestRenderAll()
}
