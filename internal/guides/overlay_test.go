package guides

import (
	"image"
	"testing"

	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/internal/surface"
	"design-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder wraps a scene and records handler installation.
type recorder struct {
	*scene.Scene
	installed []scene.EventType
	removed   int
}

func (r *recorder) On(event scene.EventType, h scene.Handler) scene.Subscription {
	r.installed = append(r.installed, event)
	return r.Scene.On(event, h)
}

func (r *recorder) Off(sub scene.Subscription) {
	r.removed++
	r.Scene.Off(sub)
}

type fixture struct {
	scene   *scene.Scene
	overlay *Overlay
	box     *scene.Shape
	renders int
}

// newFixture builds a 900x1200 workspace with a 100x50 box centered at
// (cx, cy) and an enabled overlay on a 1000x1300 surface.
func newFixture(t *testing.T, cx, cy float64) *fixture {
	t.Helper()
	f := &fixture{scene: scene.NewScene()}

	ws := scene.NewShape("workspace", scene.KindRect, 0, 0, 900, 1200)
	ws.SetSelectable(false)
	f.scene.SetWorkspace(ws)
	f.box = scene.NewShape("box", scene.KindRect, cx-50, cy-25, 100, 50)
	f.scene.Add(f.box)
	f.scene.SetInvalidateHook(func() { f.renders++ })

	surf := surface.New()
	surf.Resize(1000, 1300, 1)
	f.overlay = New(f.scene, snap.NewEngine(snap.DefaultOptions()), surf, DefaultOptions())
	f.overlay.Enable()
	return f
}

func inked(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func TestEnableInstallsHandlersInOrder(t *testing.T) {
	rec := &recorder{Scene: scene.NewScene()}
	surf := surface.New()
	o := New(rec, snap.NewEngine(snap.DefaultOptions()), surf, DefaultOptions())

	o.Enable()
	o.Enable()
	assert.True(t, o.Enabled())
	assert.Equal(t, []scene.EventType{
		scene.EventMouseDown,
		scene.EventBeforeRender,
		scene.EventAfterRender,
		scene.EventObjectMoving,
		scene.EventMouseUp,
	}, rec.installed)

	renders := 0
	rec.SetInvalidateHook(func() { renders++ })
	o.Disable()
	assert.False(t, o.Enabled())
	assert.Equal(t, 5, rec.removed)
	assert.Equal(t, 1, renders, "disable repaints")

	o.Disable()
	assert.Equal(t, 5, rec.removed)
}

func TestDragSnapsAndDrawsAfterRender(t *testing.T) {
	f := newFixture(t, 448, 300)
	var outcomes []snap.Outcome
	f.overlay.OnSnap(func(out snap.Outcome) { outcomes = append(outcomes, out) })

	require.Same(t, f.box, f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0))
	require.True(t, f.scene.PointerMove(geometry.Point2D{X: 449, Y: 300}, 0))

	assert.Equal(t, 450.0, f.box.CenterPoint().X)
	assert.Equal(t, 1, f.overlay.Pending())
	require.Len(t, outcomes, 1)
	assert.Equal(t, snap.WorkspaceCenter, outcomes[0].Resolution.X.Source)

	f.scene.Render(nil)
	assert.Zero(t, f.overlay.Pending(), "drained after drawing")

	img := f.overlay.Surface().Image()
	assert.Positive(t, inked(img, image.Rect(450, 100, 451, 1100)))
	assert.Zero(t, inked(img, image.Rect(0, 0, 448, 1300)))
	assert.Zero(t, inked(img, image.Rect(453, 0, 1000, 1300)))

	// The next frame without a move clears the guide.
	f.scene.Render(nil)
	assert.Zero(t, inked(f.overlay.Surface().Image(), image.Rect(0, 0, 1000, 1300)))
}

func TestBothAxesDrawBothLines(t *testing.T) {
	f := newFixture(t, 452, 597)

	f.scene.PointerDown(geometry.Point2D{X: 452, Y: 597}, 0)
	f.scene.PointerMove(geometry.Point2D{X: 452, Y: 597}, 0)
	require.Equal(t, 2, f.overlay.Pending())

	f.scene.Render(nil)
	img := f.overlay.Surface().Image()
	assert.Positive(t, inked(img, image.Rect(450, 200, 451, 210)), "vertical guide")
	assert.Positive(t, inked(img, image.Rect(200, 600, 210, 601)), "horizontal guide")
}

func TestPointerUpLeavesNothingBehind(t *testing.T) {
	f := newFixture(t, 448, 300)

	f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0)
	f.scene.PointerMove(geometry.Point2D{X: 449, Y: 300}, 0)
	f.scene.Render(nil)
	f.scene.PointerMove(geometry.Point2D{X: 450, Y: 300}, 0)
	require.Equal(t, 1, f.overlay.Pending())

	before := f.renders
	f.scene.PointerUp(geometry.Point2D{X: 450, Y: 300}, 0)

	assert.Zero(t, f.overlay.Pending())
	assert.Equal(t, before+1, f.renders, "one more repaint requested")
	assert.Zero(t, inked(f.overlay.Surface().Image(), image.Rect(0, 0, 1000, 1300)))

	f.scene.Render(nil)
	assert.Zero(t, inked(f.overlay.Surface().Image(), image.Rect(0, 0, 1000, 1300)))
}

func TestAltBypassesSnapping(t *testing.T) {
	f := newFixture(t, 448, 300)

	f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0)
	f.scene.PointerMove(geometry.Point2D{X: 449, Y: 300}, 0)
	require.Equal(t, 1, f.overlay.Pending())

	f.scene.PointerMove(geometry.Point2D{X: 452, Y: 300}, scene.ModAlt)
	assert.Zero(t, f.overlay.Pending())
	assert.Equal(t, 452.0, f.box.CenterPoint().X)

	f.scene.Render(nil)
	assert.Zero(t, inked(f.overlay.Surface().Image(), image.Rect(0, 0, 1000, 1300)))
}

func TestMovingGuards(t *testing.T) {
	f := newFixture(t, 448, 300)

	// No drag in progress.
	f.scene.Emit(scene.Event{Type: scene.EventObjectMoving, Target: f.box})
	assert.Zero(t, f.overlay.Pending())
	assert.Equal(t, 448.0, f.box.CenterPoint().X)

	f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0)

	f.scene.Emit(scene.Event{Type: scene.EventObjectMoving})
	f.scene.Emit(scene.Event{Type: scene.EventObjectMoving, Target: f.scene.Workspace()})
	f.box.SetSelectable(false)
	f.scene.Emit(scene.Event{Type: scene.EventObjectMoving, Target: f.box})
	assert.Zero(t, f.overlay.Pending())
	assert.Equal(t, 448.0, f.box.CenterPoint().X)
}

func TestViewportIsSnapshotPerGesture(t *testing.T) {
	f := newFixture(t, 448, 300)

	f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0)
	f.scene.Pan(100, 0)
	// Screen 549 is world 449 under the panned viewport.
	f.scene.PointerMove(geometry.Point2D{X: 549, Y: 300}, 0)
	require.Equal(t, 450.0, f.box.CenterPoint().X)

	f.scene.Render(nil)
	img := f.overlay.Surface().Image()
	assert.Positive(t, inked(img, image.Rect(450, 100, 451, 1100)))
	assert.Zero(t, inked(img, image.Rect(540, 0, 560, 1300)))
}

func TestZoomedGuideLandsOnScreenPosition(t *testing.T) {
	f := newFixture(t, 449, 300)
	f.scene.SetViewportTransform(geometry.Scale(0.5, 0.5))

	// World (449, 300) is screen (224.5, 150).
	f.scene.PointerDown(geometry.Point2D{X: 224.5, Y: 150}, 0)
	f.scene.PointerMove(geometry.Point2D{X: 224.5, Y: 150}, 0)
	require.Equal(t, 1, f.overlay.Pending())

	f.scene.Render(nil)
	img := f.overlay.Surface().Image()
	// World 450 is screen 225, stroked at 225.5.
	assert.Positive(t, inked(img, image.Rect(225, 100, 226, 500)))
	assert.Zero(t, inked(img, image.Rect(228, 0, 1000, 1300)))
}

func TestDisabledOverlayIgnoresDrags(t *testing.T) {
	f := newFixture(t, 448, 300)
	f.overlay.Disable()

	f.scene.PointerDown(geometry.Point2D{X: 448, Y: 300}, 0)
	f.scene.PointerMove(geometry.Point2D{X: 449, Y: 300}, 0)
	assert.Equal(t, 449.0, f.box.CenterPoint().X)
	assert.Zero(t, f.overlay.Pending())
}
