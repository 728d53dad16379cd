// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"strconv"

	"design-canvas/internal/app"
	"design-canvas/internal/logging"
	"design-canvas/internal/ruler"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/internal/version"
	"design-canvas/ui/canvas"
	"design-canvas/ui/prefs"
	"design-canvas/ui/rulers"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle      = "Design Canvas"
	defaultWidth  = 1280
	defaultHeight = 860
)

// thicknessChoices are the ruler sizes offered in the toolbar.
var thicknessChoices = []string{"16", "20", "24", "32"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas        *canvas.EditorCanvas
	rulerRenderer *ruler.Renderer
	rulers        *rulers.Frame

	statusBar   *widget.Label
	zoomLabel   *widget.Label
	guidesCheck *widget.Check
	rulersCheck *widget.Check
	thickness   *widget.Select
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	win.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewEditorCanvas(mw.state)

	mw.rulerRenderer = ruler.New(mw.state.Scene, mw.state.RulerOptions())
	mw.canvas.OnResize(mw.rulerRenderer.Resize)
	mw.rulers = rulers.New(mw.rulerRenderer, mw.canvas, mw.canvas.Locker())
	mw.rulers.SetEnabled(mw.state.RulersEnabled())

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel(formatZoom(mw.state.Scene.Zoom()))
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(formatZoom(zoom))
	})

	toolbar := mw.createToolbar()

	status := container.NewHBox(mw.statusBar, widget.NewSeparator(), mw.zoomLabel)

	content := container.NewBorder(
		toolbar,   // top
		status,    // bottom
		nil,       // left
		nil,       // right
		mw.rulers, // center
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with shape, zoom and overlay controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	rectBtn := widget.NewButton("Rectangle", func() { mw.onAddShape(scene.KindRect) })
	ellipseBtn := widget.NewButton("Ellipse", func() { mw.onAddShape(scene.KindEllipse) })
	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.canvas.FitToWindow)
	actualBtn := widget.NewButton("1:1", func() { mw.canvas.SetZoom(1) })

	mw.guidesCheck = widget.NewCheck("Guides", mw.state.SetGuidesEnabled)
	mw.guidesCheck.SetChecked(mw.state.GuidesEnabled())
	mw.rulersCheck = widget.NewCheck("Rulers", mw.state.SetRulersEnabled)
	mw.rulersCheck.SetChecked(mw.state.RulersEnabled())

	mw.thickness = widget.NewSelect(thicknessChoices, func(s string) {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return
		}
		if err := mw.state.SetRulerThickness(t); err != nil {
			mw.updateStatus(err.Error())
		}
	})
	mw.thickness.SetSelected(strconv.FormatFloat(mw.state.RulerThickness(), 'f', -1, 64))

	return container.NewHBox(
		rectBtn,
		ellipseBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		mw.guidesCheck,
		mw.rulersCheck,
		widget.NewLabel("Ruler:"),
		mw.thickness,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() {
			mw.SavePreferences()
			mw.app.Quit()
		}),
	)

	insertMenu := fyne.NewMenu("Insert",
		fyne.NewMenuItem("Rectangle", func() { mw.onAddShape(scene.KindRect) }),
		fyne.NewMenuItem("Ellipse", func() { mw.onAddShape(scene.KindEllipse) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Demo Layout", mw.onSeedDemo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear", mw.onClear),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit Workspace", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Guides", func() { mw.state.SetGuidesEnabled(!mw.state.GuidesEnabled()) }),
		fyne.NewMenuItem("Toggle Rulers", func() { mw.state.SetRulersEnabled(!mw.state.RulersEnabled()) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, insertMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventGuidesToggled, func(data interface{}) {
		on, _ := data.(bool)
		mw.guidesCheck.SetChecked(on)
		mw.prefs.SetBool(prefs.KeyGuidesEnabled, on)
		mw.updateStatus(fmt.Sprintf("Guides %s", onOff(on)))
	})

	mw.state.On(app.EventRulersToggled, func(data interface{}) {
		on, _ := data.(bool)
		mw.rulers.SetEnabled(on)
		mw.rulersCheck.SetChecked(on)
		mw.prefs.SetBool(prefs.KeyRulersEnabled, on)
		mw.updateStatus(fmt.Sprintf("Rulers %s", onOff(on)))
	})

	mw.state.On(app.EventRulerThicknessChanged, func(data interface{}) {
		t, _ := data.(float64)
		mw.rulers.SetThickness(t)
		mw.prefs.SetFloat(prefs.KeyRulerThickness, t)
	})

	mw.state.On(app.EventSceneChanged, func(data interface{}) {
		mw.canvas.Refresh()
		if sh, ok := data.(*scene.Shape); ok {
			mw.updateStatus("Added " + sh.Name)
		}
	})

	mw.state.On(app.EventSnapped, func(data interface{}) {
		if out, ok := data.(snap.Outcome); ok {
			mw.updateStatus(describeSnap(out))
		}
	})

	mw.state.On(app.EventConfigReloaded, func(interface{}) {
		mw.rulers.SetOptions(mw.state.RulerOptions())
		mw.rulers.SetEnabled(mw.state.RulersEnabled())
		mw.guidesCheck.SetChecked(mw.state.GuidesEnabled())
		mw.rulersCheck.SetChecked(mw.state.RulersEnabled())
		mw.updateStatus("Configuration reloaded")
	})
}

// setupKeys forwards modifier key state to the canvas so that the snap
// bypass follows keys pressed or released mid-drag.
func (mw *MainWindow) setupKeys() {
	if desk, ok := mw.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(mw.canvas.KeyDown)
		desk.SetOnKeyUp(mw.canvas.KeyUp)
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// SavePreferences stores the feature switches and window size.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetBool(prefs.KeyGuidesEnabled, mw.state.GuidesEnabled())
	mw.prefs.SetBool(prefs.KeyRulersEnabled, mw.state.RulersEnabled())
	mw.prefs.SetFloat(prefs.KeyRulerThickness, mw.state.RulerThickness())
	if err := mw.prefs.Save(); err != nil {
		logging.Logger().Warn("saving preferences failed", "path", mw.prefs.Path(), "error", err)
	}
}

func (mw *MainWindow) onAddShape(kind scene.Kind) {
	lock := mw.canvas.Locker()
	lock.Lock()
	mw.state.AddShape(kind)
	lock.Unlock()
}

func (mw *MainWindow) onSeedDemo() {
	lock := mw.canvas.Locker()
	lock.Lock()
	mw.state.SeedDemo()
	lock.Unlock()
}

func (mw *MainWindow) onClear() {
	lock := mw.canvas.Locker()
	lock.Lock()
	mw.state.ClearShapes()
	lock.Unlock()
	mw.updateStatus("Cleared")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"A design canvas with snapping guides and rulers.\n\n"+
			"Hold %s while dragging to place freely.",
			appTitle, version.String(), mw.state.Config().Guides.BypassModifier),
		mw.Window)
}
