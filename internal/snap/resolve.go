package snap

import (
	"math"

	"design-canvas/pkg/geometry"
)

// Match is the winning candidate on one axis.
type Match struct {
	Candidate
	// Delta is the signed distance the active object's center must move,
	// candidate value minus the matched comparison point.
	Delta float64
}

// Resolution holds at most one winner per axis; nil means no snap.
type Resolution struct {
	X *Match
	Y *Match
}

// Snapped reports whether either axis has a winner.
func (r Resolution) Snapped() bool {
	return r.X != nil || r.Y != nil
}

// Delta returns the center displacement, zero on axes without a winner.
func (r Resolution) Delta() geometry.Point2D {
	var d geometry.Point2D
	if r.X != nil {
		d.X = r.X.Delta
	}
	if r.Y != nil {
		d.Y = r.Y.Delta
	}
	return d
}

// Resolve picks the winning candidate per axis. The comparison points are
// the near edge, the center and the far edge of the active rect;
// workspace candidates are tested against all three, object candidates
// against the center only. A candidate matches within margin (inclusive)
// and the smallest |delta| wins, the first one found on ties.
func Resolve(active geometry.Rect, center geometry.Point2D, c Candidates, margin float64) Resolution {
	xs := [3]float64{active.Left(), center.X, active.Right()}
	ys := [3]float64{active.Top(), center.Y, active.Bottom()}
	return Resolution{
		X: best(c.Vertical, xs, margin),
		Y: best(c.Horizontal, ys, margin),
	}
}

func best(cands []Candidate, points [3]float64, margin float64) *Match {
	var win *Match
	for _, cand := range cands {
		pts := points[:]
		if !cand.Source.FromWorkspace() {
			pts = points[1:2]
		}
		for _, p := range pts {
			if math.Abs(cand.Value-p) > margin {
				continue
			}
			delta := cand.Value - p
			if win == nil || math.Abs(delta) < math.Abs(win.Delta) {
				win = &Match{Candidate: cand, Delta: delta}
			}
		}
	}
	return win
}

// GuideLine is a world-space guide. Start and End bound it along the
// perpendicular axis: y for vertical lines, x for horizontal ones.
type GuideLine struct {
	Axis  Axis
	Value float64
	Start float64
	End   float64
}

// GuideLines sizes one line per winning axis so that it spans the winner's
// owner rect and the active rect after snapping, plus offset on each end.
func GuideLines(res Resolution, after geometry.Rect, offset float64) []GuideLine {
	lines := make([]GuideLine, 0, 2)
	if m := res.X; m != nil {
		lines = append(lines, GuideLine{
			Axis:  Vertical,
			Value: m.Value,
			Start: math.Min(m.Owner.Top(), after.Top()) - offset,
			End:   math.Max(m.Owner.Bottom(), after.Bottom()) + offset,
		})
	}
	if m := res.Y; m != nil {
		lines = append(lines, GuideLine{
			Axis:  Horizontal,
			Value: m.Value,
			Start: math.Min(m.Owner.Left(), after.Left()) - offset,
			End:   math.Max(m.Owner.Right(), after.Right()) + offset,
		})
	}
	return lines
}
