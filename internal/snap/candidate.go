// Package snap computes alignment candidates for a moving object, picks
// the winning alignment per axis and derives the guide lines to show.
package snap

import (
	"design-canvas/internal/scene"
	"design-canvas/pkg/geometry"
)

// Axis is the orientation of a snap line.
type Axis int

const (
	// Vertical lines have a constant x.
	Vertical Axis = iota
	// Horizontal lines have a constant y.
	Horizontal
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Source tells where a candidate line came from.
type Source int

const (
	WorkspaceEdge Source = iota
	WorkspaceCenter
	ObjectCenter
)

func (s Source) String() string {
	switch s {
	case WorkspaceEdge:
		return "workspace-edge"
	case WorkspaceCenter:
		return "workspace-center"
	default:
		return "object-center"
	}
}

// FromWorkspace reports whether the candidate was derived from the workspace.
func (s Source) FromWorkspace() bool {
	return s == WorkspaceEdge || s == WorkspaceCenter
}

// Candidate is a world-space line the moving object may align to.
type Candidate struct {
	Axis   Axis
	Value  float64
	Source Source
	Owner  geometry.Rect // sizes the resulting guide line
}

// Candidates holds the per-axis candidate lists in generation order.
type Candidates struct {
	Vertical   []Candidate
	Horizontal []Candidate
}

// Len returns the total number of candidates.
func (c Candidates) Len() int {
	return len(c.Vertical) + len(c.Horizontal)
}

// Generate builds the candidate lists for active. The workspace (may be
// nil) contributes its edges and centers; every other selectable, visible
// object contributes its center lines only. Order is significant: it is
// the tie-break order of Resolve.
func Generate(objects []scene.Object, active, workspace scene.Object) Candidates {
	var c Candidates

	if ws, ok := scene.RectOf(workspace); ok {
		c.Vertical = append(c.Vertical,
			Candidate{Axis: Vertical, Value: ws.Left(), Source: WorkspaceEdge, Owner: ws},
			Candidate{Axis: Vertical, Value: ws.Left() + ws.Width/2, Source: WorkspaceCenter, Owner: ws},
			Candidate{Axis: Vertical, Value: ws.Right(), Source: WorkspaceEdge, Owner: ws},
		)
		c.Horizontal = append(c.Horizontal,
			Candidate{Axis: Horizontal, Value: ws.Top(), Source: WorkspaceEdge, Owner: ws},
			Candidate{Axis: Horizontal, Value: ws.Top() + ws.Height/2, Source: WorkspaceCenter, Owner: ws},
			Candidate{Axis: Horizontal, Value: ws.Bottom(), Source: WorkspaceEdge, Owner: ws},
		)
	}

	for _, o := range objects {
		if o == active || o == workspace {
			continue
		}
		if !o.Selectable() || !o.Visible() {
			continue
		}
		r, ok := scene.RectOf(o)
		if !ok {
			continue
		}
		center := o.CenterPoint()
		c.Vertical = append(c.Vertical, Candidate{Axis: Vertical, Value: center.X, Source: ObjectCenter, Owner: r})
		c.Horizontal = append(c.Horizontal, Candidate{Axis: Horizontal, Value: center.Y, Source: ObjectCenter, Owner: r})
	}

	return c
}
