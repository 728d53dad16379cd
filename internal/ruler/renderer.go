package ruler

import (
	"image/color"

	"design-canvas/internal/logging"
	"design-canvas/internal/scene"
	"design-canvas/internal/surface"
	"design-canvas/pkg/colorutil"
)

const (
	DefaultThickness = 24
	DefaultFontSize  = 11

	// labelInset is the gap between a major tick and its label.
	labelInset = 2
)

// Options configures a Renderer. Sizes are CSS pixels.
type Options struct {
	Thickness  float64
	FontSize   float64
	TickColor  color.Color
	MinorColor color.Color
	TextColor  color.Color
}

// DefaultOptions returns 24 px rulers with 11 px slate labels.
func DefaultOptions() Options {
	return Options{
		Thickness:  DefaultThickness,
		FontSize:   DefaultFontSize,
		TickColor:  colorutil.Slate,
		MinorColor: colorutil.SlateFaint,
		TextColor:  colorutil.Slate,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Thickness <= 0 {
		o.Thickness = d.Thickness
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.TickColor == nil {
		o.TickColor = d.TickColor
	}
	if o.MinorColor == nil {
		o.MinorColor = d.MinorColor
	}
	if o.TextColor == nil {
		o.TextColor = d.TextColor
	}
	return o
}

// AxisStats counts the ticks drawn on one ruler.
type AxisStats struct {
	Major, Mid, Minor int
}

// Total returns the number of ticks.
func (s AxisStats) Total() int {
	return s.Major + s.Mid + s.Minor
}

func (s *AxisStats) add(c Class) {
	switch c {
	case Major:
		s.Major++
	case Mid:
		s.Mid++
	default:
		s.Minor++
	}
}

// Frame describes the last Draw call.
type Frame struct {
	Drawn bool
	Top   AxisStats
	Left  AxisStats
}

// Renderer draws the top and left rulers for a scene. It redraws after
// every scene render and on every Resize while enabled; nothing is cached
// between frames.
type Renderer struct {
	adapter scene.Adapter
	opts    Options

	top  *surface.Surface
	left *surface.Surface

	width, height float64 // container size, CSS pixels
	dpr           float64

	sub     scene.Subscription
	enabled bool

	ticks []Tick // scratch, empty between draws
	last  Frame

	onDraw func()
}

// New creates a disabled renderer.
func New(a scene.Adapter, opts Options) *Renderer {
	r := &Renderer{
		adapter: a,
		opts:    opts.withDefaults(),
		top:     surface.New(),
		left:    surface.New(),
		dpr:     1,
	}
	r.applyFont()
	return r
}

func (r *Renderer) applyFont() {
	src, err := surface.LabelFont()
	if err != nil {
		logging.Logger().Warn("ruler labels disabled", "error", err)
		return
	}
	r.top.SetFont(src, r.opts.FontSize)
	r.left.SetFont(src, r.opts.FontSize)
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the configuration, filling unset fields with the
// defaults, and redraws while enabled.
func (r *Renderer) SetOptions(opts Options) {
	opts = opts.withDefaults()
	prev := r.opts
	r.opts = opts
	if opts.FontSize != prev.FontSize {
		r.applyFont()
	}
	if opts.Thickness != prev.Thickness {
		r.Resize(r.width, r.height, r.dpr)
		return
	}
	if r.enabled {
		r.Draw()
	}
}

// Top returns the horizontal ruler surface.
func (r *Renderer) Top() *surface.Surface { return r.top }

// Left returns the vertical ruler surface.
func (r *Renderer) Left() *surface.Surface { return r.left }

// Thickness returns the ruler thickness in CSS pixels.
func (r *Renderer) Thickness() float64 { return r.opts.Thickness }

// OnDraw registers a callback run after each completed draw.
func (r *Renderer) OnDraw(fn func()) {
	r.onDraw = fn
}

// Enabled reports whether the renderer follows scene renders.
func (r *Renderer) Enabled() bool {
	return r.enabled
}

// Enable subscribes to after-render notifications and draws once.
func (r *Renderer) Enable() {
	if r.enabled {
		return
	}
	r.enabled = true
	r.sub = r.adapter.On(scene.EventAfterRender, func(scene.Event) { r.Draw() })
	r.Draw()
}

// Disable unsubscribes and blanks both rulers.
func (r *Renderer) Disable() {
	if !r.enabled {
		return
	}
	r.enabled = false
	r.adapter.Off(r.sub)
	r.top.Clear()
	r.left.Clear()
	r.notify()
}

// SetThickness changes the ruler thickness and redraws.
func (r *Renderer) SetThickness(t float64) {
	if t <= 0 || t == r.opts.Thickness {
		return
	}
	r.opts.Thickness = t
	r.Resize(r.width, r.height, r.dpr)
}

// Resize sets the container size in CSS pixels and the device pixel ratio.
// Backing stores are reallocated only when their device size changes; the
// rulers are redrawn either way while enabled.
func (r *Renderer) Resize(width, height, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	r.width, r.height, r.dpr = width, height, dpr
	th := r.opts.Thickness
	topChanged := r.top.Resize(width, th, dpr)
	leftChanged := r.left.Resize(th, height, dpr)
	if topChanged || leftChanged {
		logging.Logger().Debug("ruler backing store resized", "width", width, "height", height, "dpr", dpr)
	}
	if r.enabled {
		r.Draw()
	}
}

// Pending returns the number of ticks held in the scratch buffer. It is
// zero outside Draw.
func (r *Renderer) Pending() int {
	return len(r.ticks)
}

// LastFrame reports what the last Draw call did.
func (r *Renderer) LastFrame() Frame {
	return r.last
}

// Draw repaints both rulers from the live viewport and workspace. It
// reports false and leaves the surfaces untouched when there is no
// workspace, no backing store yet, or a viewport scale that is zero,
// negative or not finite.
func (r *Renderer) Draw() bool {
	r.last = Frame{}
	if !r.top.Ready() || !r.left.Ready() {
		return false
	}
	ws, ok := scene.WorkspaceRect(r.adapter)
	if !ok {
		logging.Logger().Debug("ruler frame skipped: no workspace")
		return false
	}
	vp := r.adapter.ViewportTransform()
	top := AxisParams{Scale: vp.A, Offset: vp.TX, Origin: ws.Left(), Length: r.width}
	left := AxisParams{Scale: vp.D, Offset: vp.TY, Origin: ws.Top(), Length: r.height}
	if !top.Usable() || !left.Usable() {
		logging.Logger().Debug("ruler frame skipped: unusable scale", "sx", vp.A, "sy", vp.D)
		return false
	}

	r.top.Clear()
	r.ticks = Ticks(top, r.ticks)
	for _, t := range r.ticks {
		r.drawTopTick(t)
		r.last.Top.add(t.Class)
	}

	r.left.Clear()
	r.ticks = Ticks(left, r.ticks)
	for _, t := range r.ticks {
		r.drawLeftTick(t)
		r.last.Left.add(t.Class)
	}

	r.ticks = r.ticks[:0]
	r.last.Drawn = true
	r.notify()
	return true
}

func (r *Renderer) notify() {
	if r.onDraw != nil {
		r.onDraw()
	}
}

func (r *Renderer) tickColor(c Class) color.Color {
	if c == Major {
		return r.opts.TickColor
	}
	return r.opts.MinorColor
}

func (r *Renderer) drawTopTick(t Tick) {
	th := r.opts.Thickness
	x := roundHalfUp(t.Screen)
	r.top.Line(x+0.5, th, x+0.5, th-th*t.Class.lengthFactor(), 1, r.tickColor(t.Class))
	if t.Class == Major {
		r.top.Text(t.Label(), x+labelInset, labelInset, r.opts.TextColor)
	}
}

func (r *Renderer) drawLeftTick(t Tick) {
	th := r.opts.Thickness
	y := roundHalfUp(t.Screen)
	r.left.Line(th, y+0.5, th-th*t.Class.lengthFactor(), y+0.5, 1, r.tickColor(t.Class))
	if t.Class == Major {
		r.left.TextUp(t.Label(), labelInset, y+labelInset, r.opts.TextColor)
	}
}
