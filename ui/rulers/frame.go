// Package rulers provides the ruler frame drawn over the top and left edges
// of the editor canvas.
package rulers

import (
	"image"
	"sync"

	"design-canvas/internal/ruler"
	"design-canvas/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Frame stacks the two ruler strips and their corner over content. The
// strips share content's screen coordinates, so tick positions line up
// with the painted scene.
type Frame struct {
	widget.BaseWidget

	renderer *ruler.Renderer
	lock     sync.Locker
	content  fyne.CanvasObject

	topBg, leftBg, corner *fynecanvas.Rectangle
	top, left             *fynecanvas.Raster
}

// New creates a frame around content. lock guards the renderer and the
// scene it reads; it is the canvas lock.
func New(r *ruler.Renderer, content fyne.CanvasObject, lock sync.Locker) *Frame {
	f := &Frame{
		renderer: r,
		lock:     lock,
		content:  content,
		topBg:    fynecanvas.NewRectangle(colorutil.RulerBackground),
		leftBg:   fynecanvas.NewRectangle(colorutil.RulerBackground),
		corner:   fynecanvas.NewRectangle(colorutil.RulerBackground),
	}
	f.corner.StrokeColor = colorutil.SlateFaint
	f.corner.StrokeWidth = 1

	f.top = fynecanvas.NewRaster(func(w, h int) image.Image {
		return f.snapshot(r.Top().Image)
	})
	f.left = fynecanvas.NewRaster(func(w, h int) image.Image {
		return f.snapshot(r.Left().Image)
	})
	f.top.ScaleMode = fynecanvas.ImageScalePixels
	f.left.ScaleMode = fynecanvas.ImageScalePixels

	r.OnDraw(func() {
		f.top.Refresh()
		f.left.Refresh()
	})

	f.lock.Lock()
	enabled := r.Enabled()
	f.lock.Unlock()
	f.showStrips(enabled)

	f.ExtendBaseWidget(f)
	return f
}

func (f *Frame) snapshot(img func() image.Image) image.Image {
	f.lock.Lock()
	defer f.lock.Unlock()
	if out := img(); out != nil {
		return out
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// Enabled reports whether the rulers are shown.
func (f *Frame) Enabled() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.renderer.Enabled()
}

// SetEnabled shows or hides the rulers.
func (f *Frame) SetEnabled(on bool) {
	f.lock.Lock()
	if on {
		f.renderer.Enable()
	} else {
		f.renderer.Disable()
	}
	f.lock.Unlock()
	f.showStrips(on)
	f.Refresh()
}

// SetThickness changes the strip thickness in CSS pixels.
func (f *Frame) SetThickness(t float64) {
	f.lock.Lock()
	f.renderer.SetThickness(t)
	f.lock.Unlock()
	f.Refresh()
}

// SetOptions applies a new ruler style and thickness.
func (f *Frame) SetOptions(opts ruler.Options) {
	f.lock.Lock()
	f.renderer.SetOptions(opts)
	f.lock.Unlock()
	f.Refresh()
}

func (f *Frame) thickness() float32 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return float32(f.renderer.Thickness())
}

func (f *Frame) showStrips(on bool) {
	for _, o := range []fyne.CanvasObject{f.topBg, f.leftBg, f.corner, f.top, f.left} {
		if on {
			o.Show()
		} else {
			o.Hide()
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (f *Frame) CreateRenderer() fyne.WidgetRenderer {
	return &frameRenderer{frame: f}
}

type frameRenderer struct {
	frame *Frame
}

func (r *frameRenderer) Layout(size fyne.Size) {
	f := r.frame
	f.content.Move(fyne.NewPos(0, 0))
	f.content.Resize(size)

	th := f.thickness()
	horizontal := fyne.NewSize(size.Width, th)
	vertical := fyne.NewSize(th, size.Height)
	for _, o := range []fyne.CanvasObject{f.topBg, f.top} {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(horizontal)
	}
	for _, o := range []fyne.CanvasObject{f.leftBg, f.left} {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(vertical)
	}
	f.corner.Move(fyne.NewPos(0, 0))
	f.corner.Resize(fyne.NewSize(th, th))
}

func (r *frameRenderer) MinSize() fyne.Size {
	return r.frame.content.MinSize()
}

func (r *frameRenderer) Refresh() {
	r.Layout(r.frame.Size())
	r.frame.top.Refresh()
	r.frame.left.Refresh()
}

func (r *frameRenderer) Objects() []fyne.CanvasObject {
	f := r.frame
	return []fyne.CanvasObject{f.content, f.topBg, f.leftBg, f.top, f.left, f.corner}
}

func (r *frameRenderer) Destroy() {}
