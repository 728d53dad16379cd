// Package surface provides DPR-aware raster backing stores for the overlay
// and ruler layers.
//
// Callers draw in CSS pixels; the backing store holds device pixels
// (CSS size times the device pixel ratio) and the context transform maps one
// to the other. The store is reallocated only when its device-pixel
// dimensions change.
package surface

import (
	"image"
	"image/color"
	"math"

	"design-canvas/internal/logging"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Surface is a single drawable layer. The zero value is not usable; call New.
type Surface struct {
	ctx *gg.Context

	cssW, cssH float64
	dpr        float64

	font     *text.FontSource
	fontSize float64
	face     text.Face
}

// New creates a surface without a backing store. Drawing calls are no-ops
// until the first Resize.
func New() *Surface {
	return &Surface{dpr: 1}
}

// DeviceSize converts a CSS size into backing-store pixels, never smaller
// than 1x1.
func DeviceSize(cssW, cssH, dpr float64) (int, int) {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	w := int(math.Floor(cssW * dpr))
	h := int(math.Floor(cssH * dpr))
	return max(1, w), max(1, h)
}

// Resize sets the CSS size and pixel ratio. It reports whether the backing
// store was (re)allocated. The CSS-to-device transform is reset on every
// call. A non-positive ratio is treated as 1.
func (s *Surface) Resize(cssW, cssH, dpr float64) bool {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	w, h := DeviceSize(cssW, cssH, dpr)

	realloc := false
	switch {
	case s.ctx == nil:
		s.ctx = gg.NewContext(w, h)
		realloc = true
	case s.ctx.Width() != w || s.ctx.Height() != h:
		if err := s.ctx.Resize(w, h); err != nil {
			logging.Logger().Warn("surface resize failed", "width", w, "height", h, "error", err)
			return false
		}
		realloc = true
	}

	dprChanged := s.dpr != dpr
	s.cssW, s.cssH, s.dpr = cssW, cssH, dpr
	s.ctx.SetTransform(gg.Scale(dpr, dpr))
	if dprChanged || s.face == nil {
		s.updateFace()
	}
	return realloc
}

// SetFont selects the label font. size is in CSS pixels.
func (s *Surface) SetFont(src *text.FontSource, size float64) {
	s.font = src
	s.fontSize = size
	s.updateFace()
}

func (s *Surface) updateFace() {
	if s.font == nil || s.fontSize <= 0 {
		s.face = nil
		return
	}
	// Text is rasterized in device space, see Text.
	s.face = s.font.Face(s.fontSize * s.dpr)
}

// Context returns the drawing context, or nil before the first Resize.
func (s *Surface) Context() *gg.Context {
	return s.ctx
}

// Ready reports whether the surface has a backing store.
func (s *Surface) Ready() bool {
	return s.ctx != nil
}

// DPR returns the device pixel ratio of the last Resize.
func (s *Surface) DPR() float64 {
	return s.dpr
}

// Size returns the CSS size of the last Resize.
func (s *Surface) Size() (w, h float64) {
	return s.cssW, s.cssH
}

// Clear erases the whole backing store to transparent.
func (s *Surface) Clear() {
	if s.ctx == nil {
		return
	}
	s.ctx.Clear()
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.Color) {
	if s.ctx == nil {
		return
	}
	s.ctx.ClearWithColor(gg.FromColor(c))
}

// Line strokes a straight segment in CSS pixels.
func (s *Surface) Line(x0, y0, x1, y1, width float64, c color.Color) {
	if s.ctx == nil {
		return
	}
	s.ctx.SetColor(c)
	s.ctx.SetLineWidth(width)
	s.ctx.MoveTo(x0, y0)
	s.ctx.LineTo(x1, y1)
	if err := s.ctx.Stroke(); err != nil {
		logging.Logger().Warn("surface stroke failed", "error", err)
	}
}

// Rect fills an axis-aligned rectangle in CSS pixels.
func (s *Surface) Rect(x, y, w, h float64, c color.Color) {
	if s.ctx == nil {
		return
	}
	s.ctx.SetColor(c)
	s.ctx.DrawRectangle(x, y, w, h)
	if err := s.ctx.Fill(); err != nil {
		logging.Logger().Warn("surface fill failed", "error", err)
	}
}

// Text draws label with its top-left corner at (x, y) in CSS pixels.
//
// gg rasterizes glyphs straight into the pixmap, bypassing the context
// matrix, so the anchor is mapped here and the face is sized in device
// pixels.
func (s *Surface) Text(label string, x, y float64, c color.Color) {
	if s.ctx == nil || s.face == nil || label == "" {
		return
	}
	dx, dy := s.ctx.TransformPoint(x, y)
	s.ctx.SetFont(s.face)
	s.ctx.SetColor(c)
	s.ctx.DrawString(label, dx, dy+s.face.Metrics().Ascent)
}

// TextUp draws label rotated a quarter turn counter-clockwise so it reads
// bottom to top. (x, y) is the rotation anchor in CSS pixels: the label's
// top-left corner before rotation.
func (s *Surface) TextUp(label string, x, y float64, c color.Color) {
	if s.ctx == nil || s.face == nil || label == "" {
		return
	}
	m := s.face.Metrics()
	w := int(math.Ceil(s.face.Advance(label)))
	h := int(math.Ceil(m.Ascent + m.Descent))
	if w <= 0 || h <= 0 {
		return
	}

	scratch := gg.NewContext(w, h)
	scratch.SetFont(s.face)
	scratch.SetColor(c)
	scratch.DrawString(label, 0, m.Ascent)
	src := scratch.Image()

	// (u, v) in the label becomes (v, w-1-u) in the rotated image.
	rotated := image.NewRGBA(image.Rect(0, 0, h, w))
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			rotated.Set(v, w-1-u, src.At(u, v))
		}
	}

	dx, dy := s.ctx.TransformPoint(x, y)
	s.ctx.Push()
	s.ctx.Identity()
	s.ctx.DrawImage(gg.ImageBufFromImage(rotated), math.Round(dx), math.Round(dy)-float64(w))
	s.ctx.Pop()
}

// Image returns a snapshot of the backing store, or nil before the first
// Resize.
func (s *Surface) Image() image.Image {
	if s.ctx == nil {
		return nil
	}
	return s.ctx.Image()
}
