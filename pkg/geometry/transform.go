package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a transform cannot be inverted.
var ErrSingular = errors.New("geometry: singular transform")

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
//
// For the viewport it maps world coordinates to screen pixels.
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation returns a rotation transform around the origin.
func Rotation(radians float64) AffineTransform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// FromViewport builds a transform from the six viewport floats
// (scaleX, skewY, skewX, scaleY, translateX, translateY), i.e. the
// column-major [a b c d e f] layout used by canvas 2D APIs.
func FromViewport(v [6]float64) AffineTransform {
	return AffineTransform{
		A: v[0], B: v[2], TX: v[4],
		C: v[1], D: v[3], TY: v[5],
	}
}

// Viewport returns the transform in [a b c d e f] layout.
func (t AffineTransform) Viewport() [6]float64 {
	return [6]float64{t.A, t.C, t.B, t.D, t.TX, t.TY}
}

// ScaleX returns the horizontal scale component.
func (t AffineTransform) ScaleX() float64 { return t.A }

// ScaleY returns the vertical scale component.
func (t AffineTransform) ScaleY() float64 { return t.D }

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyX maps a world x coordinate to screen using only the x scale and
// translation. Guide lines are axis aligned, so skew is ignored.
func (t AffineTransform) ApplyX(x float64) float64 {
	return x*t.A + t.TX
}

// ApplyY maps a world y coordinate to screen using only the y scale and
// translation.
func (t AffineTransform) ApplyY(y float64) float64 {
	return y*t.D + t.TY
}

// Unproject maps a screen point back to world coordinates by solving
// the linear system of the transform.
func (t AffineTransform) Unproject(screen Point2D) (Point2D, error) {
	// [a b] [x]   [sx - tx]
	// [c d] [y] = [sy - ty]
	A := mat.NewDense(2, 2, []float64{t.A, t.B, t.C, t.D})
	if math.Abs(mat.Det(A)) < 1e-10 {
		return Point2D{}, ErrSingular
	}
	B := mat.NewVecDense(2, []float64{screen.X - t.TX, screen.Y - t.TY})

	var world mat.VecDense
	if err := world.SolveVec(A, B); err != nil {
		return Point2D{}, ErrSingular
	}
	return Point2D{X: world.AtVec(0), Y: world.AtVec(1)}, nil
}

// ZoomAt returns the transform rescaled to zoom while keeping the world
// point under the screen point fixed.
func (t AffineTransform) ZoomAt(screen Point2D, zoom float64) AffineTransform {
	world, err := t.Unproject(screen)
	if err != nil {
		return t
	}
	out := t
	out.A, out.D = zoom, zoom
	out.TX = screen.X - world.X*zoom
	out.TY = screen.Y - world.Y*zoom
	return out
}
