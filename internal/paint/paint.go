// Package paint renders a scene onto a surface.
package paint

import (
	"image/color"
	"math"

	"design-canvas/internal/logging"
	"design-canvas/internal/scene"
	"design-canvas/internal/surface"
	"design-canvas/pkg/colorutil"
	"design-canvas/pkg/geometry"

	"github.com/gogpu/gg"
)

// Options controls scene painting.
type Options struct {
	Backdrop  color.Color // area outside the workspace
	Selection color.Color // outline of the active object
}

// DefaultOptions returns the editor colors.
func DefaultOptions() Options {
	return Options{
		Backdrop:  colorutil.Backdrop,
		Selection: color.NRGBA{R: 59, G: 130, B: 246, A: 255},
	}
}

// ViewportMatrix converts a viewport transform into a gg matrix.
func ViewportMatrix(t geometry.AffineTransform) gg.Matrix {
	return gg.Matrix{
		A: t.A, B: t.B, C: t.TX,
		D: t.C, E: t.D, F: t.TY,
	}
}

// Scene paints every visible object of sc in stacking order, then outlines
// the active object. Objects that are not Shapes are drawn as their
// bounding rectangle. A viewport whose zoom is zero, negative or not finite
// leaves only the backdrop.
func Scene(s *surface.Surface, sc *scene.Scene, opts Options) {
	ctx := s.Context()
	if ctx == nil {
		return
	}
	s.Fill(opts.Backdrop)

	vp := sc.ViewportTransform()
	zoom := vp.ScaleX()
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		logging.Logger().Debug("scene paint skipped: unusable zoom", "zoom", zoom)
		return
	}

	ctx.Push()
	ctx.Transform(ViewportMatrix(vp))
	for _, o := range sc.Objects() {
		if !o.Visible() {
			continue
		}
		paintObject(ctx, o)
	}
	if active := sc.ActiveObject(); active != nil {
		outline(ctx, active, opts.Selection, 1/zoom)
	}
	ctx.Pop()
}

func paintObject(ctx *gg.Context, o scene.Object) {
	sh, ok := o.(*scene.Shape)
	if !ok {
		r, ok := scene.RectOf(o)
		if !ok {
			return
		}
		ctx.SetColor(colorutil.SlateFaint)
		ctx.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		fill(ctx)
		return
	}

	w, h := sh.Width*sh.ScaleX, sh.Height*sh.ScaleY
	c := sh.CenterPoint()
	ctx.Push()
	ctx.RotateAbout(sh.Angle*math.Pi/180, c.X, c.Y)
	ctx.SetColor(sh.Fill)
	switch sh.Kind {
	case scene.KindEllipse:
		ctx.DrawEllipse(c.X, c.Y, w/2, h/2)
	default:
		ctx.DrawRectangle(sh.Left, sh.Top, w, h)
	}
	fill(ctx)
	ctx.Pop()
}

// outline strokes the rotated box of o, or its bounding rect.
func outline(ctx *gg.Context, o scene.Object, col color.Color, width float64) {
	var pts []geometry.Point2D
	if sh, ok := o.(*scene.Shape); ok {
		corners := sh.Corners()
		pts = corners[:]
	} else if r, ok := scene.RectOf(o); ok {
		corners := geometry.RectCorners(r, geometry.Identity())
		pts = corners[:]
	}
	if len(pts) == 0 {
		return
	}
	ctx.SetColor(col)
	ctx.SetLineWidth(width)
	ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	if err := ctx.Stroke(); err != nil {
		logging.Logger().Warn("selection stroke failed", "error", err)
	}
}

func fill(ctx *gg.Context) {
	if err := ctx.Fill(); err != nil {
		logging.Logger().Warn("shape fill failed", "error", err)
	}
}
