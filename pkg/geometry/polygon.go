package geometry

// PointInPolygon returns true if the point lies inside the polygon, using
// the even-odd ray casting rule.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// RectCorners returns the four corners of r (clockwise from the top-left)
// after applying t.
func RectCorners(r Rect, t AffineTransform) [4]Point2D {
	return [4]Point2D{
		t.Apply(Point2D{X: r.X, Y: r.Y}),
		t.Apply(Point2D{X: r.X + r.Width, Y: r.Y}),
		t.Apply(Point2D{X: r.X + r.Width, Y: r.Y + r.Height}),
		t.Apply(Point2D{X: r.X, Y: r.Y + r.Height}),
	}
}
