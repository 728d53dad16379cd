// Package scene defines the narrow scene-graph contract the guides and
// rulers consume, plus an in-memory scene that implements it.
package scene

import (
	"errors"

	"design-canvas/internal/logging"
	"design-canvas/pkg/geometry"
)

var (
	// ErrNoCoords is returned by the cached bounding rect before the
	// object's coordinates have ever been computed.
	ErrNoCoords = errors.New("scene: coordinates not computed")

	// ErrDegenerate is returned when an object's geometry is not finite.
	ErrDegenerate = errors.New("scene: degenerate geometry")
)

// Origin is an anchor inside an object's box, in fractions of its size.
type Origin struct {
	X, Y float64
}

// Common anchors.
var (
	OriginTopLeft = Origin{X: 0, Y: 0}
	OriginCenter  = Origin{X: 0.5, Y: 0.5}
)

// Object is a positionable scene entity.
type Object interface {
	// BoundingRect returns the world-space bounding rectangle. The precise
	// variant is computed from the live geometry and may fail; the other
	// returns the coordinates cached by the last SetCoords.
	BoundingRect(precise bool) (geometry.Rect, error)
	CenterPoint() geometry.Point2D
	Selectable() bool
	Visible() bool
	// SetPositionByOrigin moves the object so that origin lands on p.
	SetPositionByOrigin(p geometry.Point2D, origin Origin)
	// SetCoords refreshes the cached coordinates after a mutation.
	SetCoords()
}

// Adapter is the view of the scene used by the snapping engine, the guide
// overlay and the rulers.
type Adapter interface {
	Objects() []Object
	// Workspace returns the workspace object or nil.
	Workspace() Object
	ViewportTransform() geometry.AffineTransform
	Zoom() float64
	// Dragging reports whether an object drag is in progress.
	Dragging() bool
	RequestRenderAll()
	On(event EventType, handler Handler) Subscription
	Off(sub Subscription)
}

// RectOf returns the bounding rectangle of o, trying the precise variant
// first and falling back to the cached one.
func RectOf(o Object) (geometry.Rect, bool) {
	if o == nil {
		return geometry.Rect{}, false
	}
	r, err := o.BoundingRect(true)
	if err == nil {
		return r, true
	}
	logging.Logger().Debug("precise bounding rect failed, using cached coords", "err", err)

	r, err = o.BoundingRect(false)
	if err != nil {
		return geometry.Rect{}, false
	}
	return r, true
}

// WorkspaceRect returns the bounding rectangle of the adapter's workspace.
func WorkspaceRect(a Adapter) (geometry.Rect, bool) {
	return RectOf(a.Workspace())
}
