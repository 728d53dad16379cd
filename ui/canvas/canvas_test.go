package canvas

import (
	"image"
	"testing"

	"design-canvas/internal/app"
	"design-canvas/internal/config"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	state  *app.State
	canvas *EditorCanvas
	box    *scene.Shape
}

// newFixture builds a 900x1200 workspace at zoom 1 with a 100x50 box
// centered on (452, 300) and renders one 1000x1300 frame.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	test.NewTempApp(t)
	state := app.NewState(config.Default())
	box := scene.NewShape("box", scene.KindRect, 402, 275, 100, 50)
	state.Scene.Add(box)

	ec := NewEditorCanvas(state)
	ec.render(1000, 1300, 1)
	return &fixture{state: state, canvas: ec, box: box}
}

func mouse(x, y float32, mods fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
		Modifier:   mods,
	}
}

func dragTo(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.NewDelta(dx, dy),
	}
}

func isGuide(img *image.RGBA, x, y int) bool {
	c := img.RGBAAt(x, y)
	return c.R > 200 && c.G < 120 && c.B < 120
}

func TestRenderSizesAndResizeCallback(t *testing.T) {
	test.NewTempApp(t)
	state := app.NewState(config.Default())
	ec := NewEditorCanvas(state)
	var sizes [][3]float64
	ec.OnResize(func(w, h, dpr float64) { sizes = append(sizes, [3]float64{w, h, dpr}) })

	out := ec.render(300, 200, 2)
	assert.Equal(t, image.Rect(0, 0, 600, 400), out.Bounds())
	ec.render(300, 200, 2)
	ec.render(320, 200, 2)
	assert.Equal(t, [][3]float64{{300, 200, 2}, {320, 200, 2}}, sizes)

	w, h, dpr := ec.ViewSize()
	assert.Equal(t, [3]float64{320, 200, 2}, [3]float64{w, h, dpr})
	assert.NotNil(t, ec.GetRenderedOutput())
}

func TestDragSnapsAndCompositesGuide(t *testing.T) {
	f := newFixture(t)
	var snapped []snap.Outcome
	f.state.On(app.EventSnapped, func(d interface{}) { snapped = append(snapped, d.(snap.Outcome)) })

	f.canvas.MouseDown(mouse(452, 300, 0))
	f.canvas.Dragged(dragTo(453, 300, 1, 0))
	assert.Equal(t, geometry.Point2D{X: 450, Y: 300}, f.box.CenterPoint())
	require.Len(t, snapped, 1)
	assert.Equal(t, snap.Vertical, snapped[0].Lines[0].Axis)

	out := f.canvas.render(1000, 1300, 1)
	assert.True(t, isGuide(out, 450, 300), "guide column")
	assert.False(t, isGuide(out, 460, 300), "shape fill")

	f.canvas.MouseUp(mouse(453, 300, 0))
	assert.Zero(t, f.canvas.Overlay().Pending())
	out = f.canvas.render(1000, 1300, 1)
	assert.False(t, isGuide(out, 450, 300), "guides gone after release")
}

func TestAltKeyBypassesSnapping(t *testing.T) {
	f := newFixture(t)
	f.canvas.MouseDown(mouse(452, 300, 0))
	f.canvas.KeyDown(&fyne.KeyEvent{Name: desktop.KeyAltLeft})
	f.canvas.Dragged(dragTo(453, 300, 1, 0))
	assert.Equal(t, geometry.Point2D{X: 453, Y: 300}, f.box.CenterPoint())

	f.canvas.KeyUp(&fyne.KeyEvent{Name: desktop.KeyAltLeft})
	f.canvas.Dragged(dragTo(452, 300, -1, 0))
	assert.Equal(t, geometry.Point2D{X: 450, Y: 300}, f.box.CenterPoint())
	f.canvas.MouseUp(mouse(452, 300, 0))
}

func TestAltModifierOnPressBypassesSnapping(t *testing.T) {
	f := newFixture(t)
	f.canvas.MouseDown(mouse(452, 300, fyne.KeyModifierAlt))
	f.canvas.Dragged(dragTo(453, 300, 1, 0))
	assert.Equal(t, geometry.Point2D{X: 453, Y: 300}, f.box.CenterPoint())
	f.canvas.MouseUp(mouse(453, 300, fyne.KeyModifierAlt))
}

func TestDragOnEmptySpacePans(t *testing.T) {
	f := newFixture(t)
	f.canvas.MouseDown(mouse(950, 50, 0))
	f.canvas.Dragged(dragTo(960, 55, 10, 5))
	f.canvas.MouseUp(mouse(960, 55, 0))

	vp := f.state.Scene.ViewportTransform()
	assert.Equal(t, 10.0, vp.TX)
	assert.Equal(t, 5.0, vp.TY)
	assert.Equal(t, geometry.Point2D{X: 452, Y: 300}, f.box.CenterPoint())

	f.canvas.Dragged(dragTo(970, 60, 10, 5))
	assert.Equal(t, 10.0, f.state.Scene.ViewportTransform().TX, "released")
}

func TestSecondaryButtonIsIgnored(t *testing.T) {
	f := newFixture(t)
	ev := mouse(452, 300, 0)
	ev.Button = desktop.MouseButtonSecondary
	f.canvas.MouseDown(ev)
	assert.False(t, f.state.Scene.Dragging())
}

func TestWheelZoomsAboutPointer(t *testing.T) {
	f := newFixture(t)
	var zooms []float64
	f.canvas.OnZoomChange(func(z float64) { zooms = append(zooms, z) })

	f.canvas.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)},
		Scrolled:   fyne.NewDelta(0, 1),
	})
	assert.InDelta(t, 1.25, f.canvas.GetZoom(), 1e-12)
	vp := f.state.Scene.ViewportTransform()
	assert.InDelta(t, 100.0, vp.ApplyX(100), 1e-9)
	assert.InDelta(t, 100.0, vp.ApplyY(100), 1e-9)

	f.canvas.ZoomOut()
	assert.InDelta(t, 1.0, f.canvas.GetZoom(), 1e-12)
	assert.Len(t, zooms, 2)
}

func TestFitToWindow(t *testing.T) {
	f := newFixture(t)
	f.canvas.FitToWindow()
	assert.InDelta(t, 1220.0/1200.0, f.canvas.GetZoom(), 1e-12)
}

func TestGuidesToggleFollowsState(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.canvas.Overlay().Enabled())

	f.state.SetGuidesEnabled(false)
	assert.False(t, f.canvas.Overlay().Enabled())

	f.canvas.MouseDown(mouse(452, 300, 0))
	f.canvas.Dragged(dragTo(453, 300, 1, 0))
	assert.Equal(t, geometry.Point2D{X: 453, Y: 300}, f.box.CenterPoint())
	f.canvas.MouseUp(mouse(453, 300, 0))

	f.state.SetGuidesEnabled(true)
	assert.True(t, f.canvas.Overlay().Enabled())
}

func TestConfigReloadUpdatesEngine(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.Guides.MarginPx = 1
	f.state.ApplyConfig(cfg)

	assert.Equal(t, 1.0, f.state.Engine.Options().MarginPx)
	f.canvas.MouseDown(mouse(452, 300, 0))
	f.canvas.Dragged(dragTo(453, 300, 1, 0))
	assert.Equal(t, geometry.Point2D{X: 453, Y: 300}, f.box.CenterPoint(), "3 px is outside a 1 px margin")
	f.canvas.MouseUp(mouse(453, 300, 0))
}

func TestModifiersFrom(t *testing.T) {
	tests := []struct {
		in   fyne.KeyModifier
		want scene.Modifier
	}{
		{0, 0},
		{fyne.KeyModifierShift, scene.ModShift},
		{fyne.KeyModifierAlt | fyne.KeyModifierControl, scene.ModAlt | scene.ModCtrl},
		{fyne.KeyModifierSuper, scene.ModSuper},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, modifiersFrom(tt.in))
	}

	_, ok := modifierForKey(fyne.KeyA)
	assert.False(t, ok)
	m, ok := modifierForKey(desktop.KeyAltRight)
	assert.True(t, ok)
	assert.Equal(t, scene.ModAlt, m)
}
