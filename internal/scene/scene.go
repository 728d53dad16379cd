package scene

import (
	"math"
	"slices"
	"sync"

	"design-canvas/pkg/geometry"
)

const (
	minZoom = 0.05
	maxZoom = 40.0
)

// hitTester is implemented by objects with a non-rectangular hit area.
type hitTester interface {
	HitTest(p geometry.Point2D) bool
}

type listener struct {
	id Subscription
	fn Handler
}

// drag tracks an object being moved with the pointer.
type drag struct {
	target Object
	grab   geometry.Point2D // center minus pointer at pointer-down
}

// Scene is an in-memory Adapter. Objects are painted in slice order, so
// the last object is on top.
type Scene struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	nextID    Subscription

	objects   []Object
	workspace Object
	viewport  geometry.AffineTransform
	drag      *drag

	invalidate func()
}

var _ Adapter = (*Scene)(nil)

// NewScene creates an empty scene with an identity viewport.
func NewScene() *Scene {
	return &Scene{
		listeners: make(map[EventType][]listener),
		viewport:  geometry.Identity(),
	}
}

// Add appends objects on top of the stack.
func (s *Scene) Add(objs ...Object) {
	s.objects = append(s.objects, objs...)
}

// Remove deletes o from the scene. Removing the workspace clears the
// workspace reference.
func (s *Scene) Remove(o Object) {
	s.objects = slices.DeleteFunc(s.objects, func(x Object) bool { return x == o })
	if s.workspace == o {
		s.workspace = nil
	}
	if s.drag != nil && s.drag.target == o {
		s.drag = nil
	}
}

// Objects implements Adapter. The returned slice is a copy.
func (s *Scene) Objects() []Object {
	return slices.Clone(s.objects)
}

// SetWorkspace marks o as the workspace, inserting it at the bottom of the
// stack if it is not in the scene yet. Pass nil to clear.
func (s *Scene) SetWorkspace(o Object) {
	s.workspace = o
	if o != nil && !slices.Contains(s.objects, o) {
		s.objects = slices.Insert(s.objects, 0, o)
	}
}

// Workspace implements Adapter.
func (s *Scene) Workspace() Object {
	return s.workspace
}

// ViewportTransform implements Adapter.
func (s *Scene) ViewportTransform() geometry.AffineTransform {
	return s.viewport
}

// SetViewportTransform replaces the viewport transform.
func (s *Scene) SetViewportTransform(t geometry.AffineTransform) {
	s.viewport = t
}

// Zoom implements Adapter. It is the horizontal scale of the viewport.
func (s *Scene) Zoom() float64 {
	return s.viewport.ScaleX()
}

// ZoomToPoint sets the zoom level keeping the world point under the
// screen point fixed. The zoom is clamped to a sane range.
func (s *Scene) ZoomToPoint(screen geometry.Point2D, zoom float64) {
	if math.IsNaN(zoom) || zoom <= 0 {
		return
	}
	zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
	s.viewport = s.viewport.ZoomAt(screen, zoom)
}

// Pan moves the viewport by a screen-space delta.
func (s *Scene) Pan(dx, dy float64) {
	s.viewport.TX += dx
	s.viewport.TY += dy
}

// Dragging implements Adapter.
func (s *Scene) Dragging() bool {
	return s.drag != nil
}

// ActiveObject returns the object being dragged, or nil.
func (s *Scene) ActiveObject() Object {
	if s.drag == nil {
		return nil
	}
	return s.drag.target
}

// SetInvalidateHook installs the host callback run by RequestRenderAll.
func (s *Scene) SetInvalidateHook(fn func()) {
	s.invalidate = fn
}

// RequestRenderAll implements Adapter.
func (s *Scene) RequestRenderAll() {
	if s.invalidate != nil {
		s.invalidate()
	}
}

// On implements Adapter.
func (s *Scene) On(event EventType, handler Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[event] = append(s.listeners[event], listener{id: s.nextID, fn: handler})
	return s.nextID
}

// Off implements Adapter. Unknown subscriptions are ignored.
func (s *Scene) Off(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for event, ls := range s.listeners {
		s.listeners[event] = slices.DeleteFunc(ls, func(l listener) bool { return l.id == sub })
	}
}

// Emit runs the handlers of ev.Type in installation order.
func (s *Scene) Emit(ev Event) {
	s.mu.RLock()
	ls := slices.Clone(s.listeners[ev.Type])
	s.mu.RUnlock()

	for _, l := range ls {
		l.fn(ev)
	}
}

// Render runs one frame: before-render handlers, frame, after-render
// handlers.
func (s *Scene) Render(frame func()) {
	s.Emit(Event{Type: EventBeforeRender})
	if frame != nil {
		frame()
	}
	s.Emit(Event{Type: EventAfterRender})
}

// FindTarget returns the topmost selectable, visible, non-workspace object
// under the world point.
func (s *Scene) FindTarget(p geometry.Point2D) Object {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if o == s.workspace || !o.Selectable() || !o.Visible() {
			continue
		}
		if ht, ok := o.(hitTester); ok {
			if ht.HitTest(p) {
				return o
			}
			continue
		}
		if r, ok := RectOf(o); ok && r.Contains(p) {
			return o
		}
	}
	return nil
}

// toWorld maps a screen point through the inverse viewport.
func (s *Scene) toWorld(screen geometry.Point2D) geometry.Point2D {
	p, err := s.viewport.Unproject(screen)
	if err != nil {
		return screen
	}
	return p
}

// PointerDown starts a drag on the object under the screen point, if any,
// and emits EventMouseDown. It returns the picked object.
func (s *Scene) PointerDown(screen geometry.Point2D, mods Modifier) Object {
	world := s.toWorld(screen)
	target := s.FindTarget(world)
	if target != nil {
		s.drag = &drag{target: target, grab: target.CenterPoint().Sub(world)}
	}
	s.Emit(Event{Type: EventMouseDown, Target: target, Pointer: world, Modifiers: mods})
	return target
}

// PointerMove moves the dragged object so that it follows the pointer,
// refreshes its coordinates, emits EventObjectMoving and requests a
// repaint. It reports whether an object was moved.
func (s *Scene) PointerMove(screen geometry.Point2D, mods Modifier) bool {
	if s.drag == nil {
		return false
	}
	world := s.toWorld(screen)
	target := s.drag.target
	target.SetPositionByOrigin(world.Add(s.drag.grab), OriginCenter)
	target.SetCoords()

	s.Emit(Event{Type: EventObjectMoving, Target: target, Pointer: world, Modifiers: mods})
	s.RequestRenderAll()
	return true
}

// PointerUp ends the drag and emits EventMouseUp.
func (s *Scene) PointerUp(screen geometry.Point2D, mods Modifier) {
	var target Object
	if s.drag != nil {
		target = s.drag.target
	}
	s.Emit(Event{Type: EventMouseUp, Target: target, Pointer: s.toWorld(screen), Modifiers: mods})
	s.drag = nil
}
