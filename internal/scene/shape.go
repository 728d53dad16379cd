package scene

import (
	"fmt"
	"image/color"
	"math"

	"design-canvas/pkg/geometry"

	"github.com/google/uuid"
)

// Kind selects how a shape is painted.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
)

// Shape is a rectangle-based scene object that can be scaled and rotated
// about its center.
type Shape struct {
	ID   uuid.UUID
	Name string
	Kind Kind
	Fill color.NRGBA

	// Unrotated box: Left/Top is the top-left corner, Width/Height are
	// multiplied by ScaleX/ScaleY.
	Left, Top     float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
	Angle         float64 // degrees, clockwise, about the center

	selectable bool
	visible    bool
	coords     *geometry.Rect
}

// NewShape creates a selectable, visible shape with computed coordinates.
func NewShape(name string, kind Kind, left, top, width, height float64) *Shape {
	s := &Shape{
		ID:         uuid.New(),
		Name:       name,
		Kind:       kind,
		Fill:       color.NRGBA{R: 148, G: 163, B: 184, A: 255},
		Left:       left,
		Top:        top,
		Width:      width,
		Height:     height,
		ScaleX:     1,
		ScaleY:     1,
		selectable: true,
		visible:    true,
	}
	s.SetCoords()
	return s
}

// String implements fmt.Stringer.
func (s *Shape) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, s.ID.String()[:8])
}

// Selectable implements Object.
func (s *Shape) Selectable() bool { return s.selectable }

// SetSelectable sets whether the shape can be picked and dragged.
func (s *Shape) SetSelectable(v bool) { s.selectable = v }

// Visible implements Object.
func (s *Shape) Visible() bool { return s.visible }

// SetVisible shows or hides the shape.
func (s *Shape) SetVisible(v bool) { s.visible = v }

// scaledSize returns the box size after scaling.
func (s *Shape) scaledSize() (w, h float64) {
	return s.Width * s.ScaleX, s.Height * s.ScaleY
}

// CenterPoint implements Object.
func (s *Shape) CenterPoint() geometry.Point2D {
	w, h := s.scaledSize()
	return geometry.Point2D{X: s.Left + w/2, Y: s.Top + h/2}
}

// localTransform maps the unrotated box onto its rotated world placement.
func (s *Shape) localTransform() geometry.AffineTransform {
	c := s.CenterPoint()
	rad := s.Angle * math.Pi / 180
	return geometry.Translation(c.X, c.Y).
		Compose(geometry.Rotation(rad)).
		Compose(geometry.Translation(-c.X, -c.Y))
}

// Corners returns the four world-space corners of the rotated box.
func (s *Shape) Corners() [4]geometry.Point2D {
	w, h := s.scaledSize()
	return geometry.RectCorners(geometry.NewRect(s.Left, s.Top, w, h), s.localTransform())
}

// BoundingRect implements Object.
func (s *Shape) BoundingRect(precise bool) (geometry.Rect, error) {
	if !precise {
		if s.coords == nil {
			return geometry.Rect{}, ErrNoCoords
		}
		return *s.coords, nil
	}

	corners := s.Corners()
	r := geometry.BoundingBox(corners[:])
	if !r.IsFinite() {
		return geometry.Rect{}, fmt.Errorf("%s: %w", s, ErrDegenerate)
	}
	return r, nil
}

// SetPositionByOrigin implements Object. The origin is taken in the
// shape's rotated frame, so a center anchor is rotation independent.
func (s *Shape) SetPositionByOrigin(p geometry.Point2D, origin Origin) {
	w, h := s.scaledSize()
	rad := s.Angle * math.Pi / 180
	offset := geometry.Rotation(rad).Apply(geometry.Point2D{
		X: (origin.X - 0.5) * w,
		Y: (origin.Y - 0.5) * h,
	})
	center := p.Sub(offset)
	s.Left = center.X - w/2
	s.Top = center.Y - h/2
}

// SetCoords implements Object. Non-finite geometry keeps the previous cache.
func (s *Shape) SetCoords() {
	corners := s.Corners()
	r := geometry.BoundingBox(corners[:])
	if !r.IsFinite() {
		return
	}
	s.coords = &r
}

// HitTest reports whether the world point lies on the rotated box.
func (s *Shape) HitTest(p geometry.Point2D) bool {
	corners := s.Corners()
	return geometry.PointInPolygon(p, corners[:])
}
