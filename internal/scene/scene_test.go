package scene

import (
	"math"
	"testing"

	"design-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeBoundingRect(t *testing.T) {
	s := NewShape("box", KindRect, 10, 20, 100, 50)

	precise, err := s.BoundingRect(true)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRect(10, 20, 100, 50), precise)

	cached, err := s.BoundingRect(false)
	require.NoError(t, err)
	assert.Equal(t, precise, cached)
}

func TestShapeRotatedBoundingRect(t *testing.T) {
	s := NewShape("box", KindRect, 0, 0, 100, 100)
	s.Angle = 45
	s.SetCoords()

	r, err := s.BoundingRect(true)
	require.NoError(t, err)
	side := 100 * math.Sqrt2
	assert.InDelta(t, side, r.Width, 1e-9)
	assert.InDelta(t, side, r.Height, 1e-9)
	assert.InDelta(t, 50.0, r.Center().X, 1e-9)
	assert.InDelta(t, 50.0, r.Center().Y, 1e-9)
}

func TestShapeCachedCoordsLagUntilSetCoords(t *testing.T) {
	s := NewShape("box", KindRect, 0, 0, 10, 10)
	s.Left = 100

	cached, err := s.BoundingRect(false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cached.X)

	s.SetCoords()
	cached, err = s.BoundingRect(false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cached.X)
}

func TestShapeDegenerateFallsBackToCache(t *testing.T) {
	s := NewShape("box", KindRect, 5, 5, 10, 10)
	s.ScaleX = math.Inf(1)

	_, err := s.BoundingRect(true)
	assert.ErrorIs(t, err, ErrDegenerate)

	r, ok := RectOf(s)
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(5, 5, 10, 10), r)
}

func TestRectOfWithoutCoords(t *testing.T) {
	s := &Shape{Width: 10, Height: 10, ScaleX: math.NaN(), ScaleY: 1}
	_, ok := RectOf(s)
	assert.False(t, ok)

	_, ok = RectOf(nil)
	assert.False(t, ok)
}

func TestSetPositionByOrigin(t *testing.T) {
	s := NewShape("box", KindRect, 0, 0, 100, 50)

	s.SetPositionByOrigin(geometry.Point2D{X: 450, Y: 600}, OriginCenter)
	assert.Equal(t, geometry.Point2D{X: 450, Y: 600}, s.CenterPoint())

	s.SetPositionByOrigin(geometry.Point2D{X: 10, Y: 20}, OriginTopLeft)
	assert.Equal(t, 10.0, s.Left)
	assert.Equal(t, 20.0, s.Top)
}

func TestSetPositionByCenterIgnoresRotation(t *testing.T) {
	s := NewShape("box", KindRect, 0, 0, 100, 50)
	s.Angle = 30
	s.SetPositionByOrigin(geometry.Point2D{X: 200, Y: 300}, OriginCenter)
	c := s.CenterPoint()
	assert.InDelta(t, 200.0, c.X, 1e-9)
	assert.InDelta(t, 300.0, c.Y, 1e-9)
}

func TestWorkspaceReference(t *testing.T) {
	sc := NewScene()
	a := NewShape("a", KindRect, 0, 0, 10, 10)
	sc.Add(a)

	ws := NewShape("workspace", KindRect, 0, 0, 900, 1200)
	sc.SetWorkspace(ws)
	assert.Same(t, ws, sc.Workspace())
	assert.Same(t, ws, sc.Objects()[0], "workspace is inserted at the bottom")

	r, ok := WorkspaceRect(sc)
	require.True(t, ok)
	assert.Equal(t, 900.0, r.Width)

	sc.Remove(ws)
	assert.Nil(t, sc.Workspace())
	_, ok = WorkspaceRect(sc)
	assert.False(t, ok)
}

func TestOnOffOrder(t *testing.T) {
	sc := NewScene()
	var got []string
	first := sc.On(EventAfterRender, func(Event) { got = append(got, "first") })
	sc.On(EventAfterRender, func(Event) { got = append(got, "second") })
	sc.On(EventBeforeRender, func(Event) { got = append(got, "before") })

	sc.Render(func() { got = append(got, "frame") })
	assert.Equal(t, []string{"before", "frame", "first", "second"}, got)

	got = nil
	sc.Off(first)
	sc.Off(Subscription(999))
	sc.Render(nil)
	assert.Equal(t, []string{"before", "second"}, got)
}

func TestPointerDragFollowsPointer(t *testing.T) {
	sc := NewScene()
	sc.SetViewportTransform(geometry.AffineTransform{A: 2, D: 2, TX: 10, TY: 10})
	box := NewShape("box", KindRect, 100, 100, 40, 20)
	sc.Add(box)

	renders := 0
	sc.SetInvalidateHook(func() { renders++ })

	var moving []Event
	sc.On(EventObjectMoving, func(ev Event) { moving = append(moving, ev) })

	// world (110, 105) -> screen (230, 220)
	target := sc.PointerDown(geometry.Point2D{X: 230, Y: 220}, 0)
	require.Same(t, box, target)
	assert.True(t, sc.Dragging())

	// move 20 screen px right = 10 world units
	moved := sc.PointerMove(geometry.Point2D{X: 250, Y: 220}, ModAlt)
	require.True(t, moved)
	assert.Equal(t, 110.0, box.Left)
	assert.Equal(t, 100.0, box.Top)
	require.Len(t, moving, 1)
	assert.True(t, moving[0].Modifiers.Has(ModAlt))
	assert.Equal(t, 1, renders)

	cached, err := box.BoundingRect(false)
	require.NoError(t, err)
	assert.Equal(t, 110.0, cached.X)

	sc.PointerUp(geometry.Point2D{X: 250, Y: 220}, 0)
	assert.False(t, sc.Dragging())
	assert.False(t, sc.PointerMove(geometry.Point2D{X: 300, Y: 300}, 0))
}

func TestFindTargetSkipsWorkspaceAndHidden(t *testing.T) {
	sc := NewScene()
	ws := NewShape("workspace", KindRect, 0, 0, 900, 1200)
	sc.SetWorkspace(ws)
	hidden := NewShape("hidden", KindRect, 0, 0, 50, 50)
	hidden.SetVisible(false)
	locked := NewShape("locked", KindRect, 0, 0, 50, 50)
	locked.SetSelectable(false)
	sc.Add(hidden, locked)

	assert.Nil(t, sc.FindTarget(geometry.Point2D{X: 10, Y: 10}))

	top := NewShape("top", KindRect, 0, 0, 50, 50)
	sc.Add(top)
	assert.Same(t, top, sc.FindTarget(geometry.Point2D{X: 10, Y: 10}))
}

func TestZoomToPointClamps(t *testing.T) {
	sc := NewScene()
	sc.ZoomToPoint(geometry.Point2D{}, 1000)
	assert.Equal(t, maxZoom, sc.Zoom())
	sc.ZoomToPoint(geometry.Point2D{}, -1)
	assert.Equal(t, maxZoom, sc.Zoom(), "non-positive zoom is ignored")
	sc.ZoomToPoint(geometry.Point2D{}, 0.0001)
	assert.Equal(t, minZoom, sc.Zoom())
}

func TestModifierHas(t *testing.T) {
	m := ModAlt | ModShift
	assert.True(t, m.Has(ModAlt))
	assert.True(t, m.Has(ModAlt|ModShift))
	assert.False(t, m.Has(ModCtrl))
	assert.False(t, m.Has(0))
}

func TestParseModifier(t *testing.T) {
	for name, want := range map[string]Modifier{
		"alt": ModAlt, "Option": ModAlt, "shift": ModShift, " ctrl ": ModCtrl, "cmd": ModSuper,
	} {
		got, err := ParseModifier(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseModifier("hyper")
	assert.Error(t, err)
}
