// Package canvas provides the editor canvas: the painted scene with pan,
// zoom, object dragging and the snapping guide overlay.
package canvas

import (
	"image"
	"math"
	"sync"

	"design-canvas/internal/app"
	"design-canvas/internal/guides"
	"design-canvas/internal/logging"
	"design-canvas/internal/paint"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/internal/surface"
	"design-canvas/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

const (
	zoomStep   = 1.25
	fitPadding = 40
)

// EditorCanvas paints the scene and turns pointer input into scene
// gestures. Dragging an object moves it, dragging empty space pans and
// the wheel zooms about the pointer.
type EditorCanvas struct {
	widget.BaseWidget

	// mu serializes input handling with painting; the scene itself is not
	// synchronized.
	mu sync.Mutex

	state   *app.State
	scene   *scene.Scene
	main    *surface.Surface
	overlay *guides.Overlay
	raster  *fynecanvas.Raster
	opts    paint.Options

	cssW, cssH, dpr float64

	held    scene.Modifier
	panning bool

	// Last rendered output for sampling
	lastOutput *image.RGBA

	// Callbacks
	onZoomChange func(zoom float64)
	onResize     func(width, height, dpr float64)
	onSnap       func(out snap.Outcome)
}

// NewEditorCanvas creates a canvas showing state's scene.
func NewEditorCanvas(state *app.State) *EditorCanvas {
	ec := &EditorCanvas{
		state: state,
		scene: state.Scene,
		main:  surface.New(),
		opts:  paint.DefaultOptions(),
		dpr:   1,
	}
	ec.overlay = ec.newOverlay(surface.New())
	if state.GuidesEnabled() {
		ec.overlay.Enable()
	}

	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.raster.SetMinSize(fyne.NewSize(200, 200))
	ec.scene.SetInvalidateHook(ec.raster.Refresh)

	state.On(app.EventGuidesToggled, func(data interface{}) {
		on, _ := data.(bool)
		ec.SetGuidesEnabled(on)
	})
	state.On(app.EventConfigReloaded, func(interface{}) {
		ec.applyConfig()
	})

	ec.ExtendBaseWidget(ec)
	return ec
}

func (ec *EditorCanvas) newOverlay(surf *surface.Surface) *guides.Overlay {
	o := guides.New(ec.scene, ec.state.Engine, surf, ec.state.GuideOptions())
	o.OnSnap(ec.handleSnap)
	return o
}

func (ec *EditorCanvas) handleSnap(out snap.Outcome) {
	if out.Resolution.Snapped() {
		ec.state.Emit(app.EventSnapped, out)
	}
	if ec.onSnap != nil {
		ec.onSnap(out)
	}
}

// Locker returns the lock that guards the scene. Widgets that read scene
// derived surfaces hold it while copying them.
func (ec *EditorCanvas) Locker() sync.Locker {
	return &ec.mu
}

// Overlay returns the guide overlay.
func (ec *EditorCanvas) Overlay() *guides.Overlay {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.overlay
}

// SetGuidesEnabled installs or removes the guide overlay handlers.
func (ec *EditorCanvas) SetGuidesEnabled(on bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if on {
		ec.overlay.Enable()
	} else {
		ec.overlay.Disable()
	}
}

// applyConfig pushes reloaded snapping and guide settings into the engine
// and rebuilds the overlay with the new style.
func (ec *EditorCanvas) applyConfig() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.state.Engine.SetOptions(ec.state.SnapOptions())
	surf := ec.overlay.Surface()
	ec.overlay.Disable()
	ec.overlay = ec.newOverlay(surf)
	if ec.state.GuidesEnabled() {
		ec.overlay.Enable()
	}
	ec.scene.RequestRenderAll()
	logging.Logger().Debug("canvas config applied")
}

// OnZoomChange sets a callback for zoom changes.
func (ec *EditorCanvas) OnZoomChange(callback func(zoom float64)) {
	ec.onZoomChange = callback
}

// OnResize sets a callback run, under the scene lock, whenever the canvas
// CSS size or pixel ratio changes.
func (ec *EditorCanvas) OnResize(callback func(width, height, dpr float64)) {
	ec.onResize = callback
}

// OnSnap sets a callback for every resolved drag step.
func (ec *EditorCanvas) OnSnap(callback func(out snap.Outcome)) {
	ec.onSnap = callback
}

// GetRenderedOutput returns the last rendered canvas output for sampling.
func (ec *EditorCanvas) GetRenderedOutput() *image.RGBA {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.lastOutput
}

// ViewSize returns the CSS size and pixel ratio of the last render.
func (ec *EditorCanvas) ViewSize() (width, height, dpr float64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.cssW, ec.cssH, ec.dpr
}

// GetZoom returns the current zoom level.
func (ec *EditorCanvas) GetZoom() float64 {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.scene.Zoom()
}

// SetZoom zooms about the middle of the view.
func (ec *EditorCanvas) SetZoom(zoom float64) {
	ec.mu.Lock()
	center := geometry.Point2D{X: ec.cssW / 2, Y: ec.cssH / 2}
	ec.scene.ZoomToPoint(center, zoom)
	z := ec.scene.Zoom()
	ec.mu.Unlock()
	ec.zoomChanged(z)
}

// ZoomIn increases the zoom level.
func (ec *EditorCanvas) ZoomIn() {
	ec.SetZoom(ec.GetZoom() * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ec *EditorCanvas) ZoomOut() {
	ec.SetZoom(ec.GetZoom() / zoomStep)
}

// FitToWindow centers the workspace in the view.
func (ec *EditorCanvas) FitToWindow() {
	ec.mu.Lock()
	ec.state.FitWorkspace(ec.cssW, ec.cssH, fitPadding)
	z := ec.scene.Zoom()
	ec.mu.Unlock()
	ec.zoomChanged(z)
}

func (ec *EditorCanvas) zoomChanged(zoom float64) {
	ec.scene.RequestRenderAll()
	if ec.onZoomChange != nil {
		ec.onZoomChange(zoom)
	}
}

// KeyDown records a held modifier key. Wire it to the window canvas.
func (ec *EditorCanvas) KeyDown(ev *fyne.KeyEvent) {
	if m, ok := modifierForKey(ev.Name); ok {
		ec.mu.Lock()
		ec.held |= m
		ec.mu.Unlock()
	}
}

// KeyUp clears a released modifier key.
func (ec *EditorCanvas) KeyUp(ev *fyne.KeyEvent) {
	if m, ok := modifierForKey(ev.Name); ok {
		ec.mu.Lock()
		ec.held &^= m
		ec.mu.Unlock()
	}
}

// MouseDown implements desktop.Mouseable.
func (ec *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.held = modifiersFrom(ev.Modifier)
	target := ec.scene.PointerDown(toPoint(ev.Position), ec.held)
	ec.panning = target == nil
}

// MouseUp implements desktop.Mouseable.
func (ec *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.panning = false
	ec.scene.PointerUp(toPoint(ev.Position), ec.held)
}

// Dragged implements fyne.Draggable.
func (ec *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	switch {
	case ec.scene.Dragging():
		ec.scene.PointerMove(toPoint(ev.Position), ec.held)
	case ec.panning:
		ec.scene.Pan(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
		ec.scene.RequestRenderAll()
	}
}

// DragEnd implements fyne.Draggable. The gesture ends on MouseUp.
func (ec *EditorCanvas) DragEnd() {}

// Scrolled implements fyne.Scrollable: the wheel zooms about the pointer.
func (ec *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	ec.mu.Lock()
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	ec.scene.ZoomToPoint(toPoint(ev.Position), ec.scene.Zoom()*factor)
	z := ec.scene.Zoom()
	ec.mu.Unlock()
	ec.zoomChanged(z)
}

// Refresh refreshes the canvas display.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ec.raster)
}

// draw is the raster drawing function; w and h are device pixels.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	size := ec.Size()
	cssW, cssH := float64(size.Width), float64(size.Height)
	if cssW <= 0 || cssH <= 0 {
		cssW, cssH = float64(w), float64(h)
	}
	dpr := float64(w) / cssW
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}

	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.render(cssW, cssH, dpr)
}

// render paints one frame at the given CSS size; the caller holds mu.
// The scene is painted between the before- and after-render notifications
// so that the overlay and the rulers follow it, then the overlay is
// composited on top.
func (ec *EditorCanvas) render(cssW, cssH, dpr float64) *image.RGBA {
	ec.main.Resize(cssW, cssH, dpr)
	ec.overlay.Surface().Resize(cssW, cssH, dpr)
	if cssW != ec.cssW || cssH != ec.cssH || dpr != ec.dpr {
		ec.cssW, ec.cssH, ec.dpr = cssW, cssH, dpr
		if ec.onResize != nil {
			ec.onResize(cssW, cssH, dpr)
		}
	}

	ec.scene.Render(func() {
		paint.Scene(ec.main, ec.scene, ec.opts)
	})

	out := toRGBA(ec.main.Image())
	if top := ec.overlay.Surface().Image(); top != nil {
		draw.Draw(out, out.Bounds(), top, image.Point{}, draw.Over)
	}
	ec.lastOutput = out
	return out
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	if img == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
