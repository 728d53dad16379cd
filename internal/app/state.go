// Package app provides editor state, feature switches and events.
package app

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"design-canvas/internal/config"
	"design-canvas/internal/guides"
	"design-canvas/internal/ruler"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/pkg/geometry"
)

// WorkspaceName names the workspace shape.
const WorkspaceName = "workspace"

// State holds the editor scene, its configuration and the feature switches.
type State struct {
	mu sync.RWMutex

	config config.Config

	// Scene and its workspace. The scene itself is not synchronized; the
	// host serializes access to it.
	Scene     *scene.Scene
	Workspace *scene.Shape
	Engine    *snap.Engine

	guidesEnabled  bool
	rulersEnabled  bool
	rulerThickness float64
	shapeCount     int

	listeners map[EventType][]EventListener
}

// EventType identifies state events.
type EventType int

const (
	EventGuidesToggled EventType = iota
	EventRulersToggled
	EventRulerThicknessChanged
	EventSceneChanged
	EventSnapped
	EventConfigReloaded
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the editor state: an empty scene holding a workspace
// sized from cfg.
func NewState(cfg config.Config) *State {
	s := &State{
		config:         cfg,
		Scene:          scene.NewScene(),
		guidesEnabled:  cfg.Guides.Enabled,
		rulersEnabled:  cfg.Rulers.Enabled,
		rulerThickness: cfg.Rulers.Thickness,
		listeners:      make(map[EventType][]EventListener),
	}
	s.Engine = snap.NewEngine(s.SnapOptions())

	s.Workspace = scene.NewShape(WorkspaceName, scene.KindRect, 0, 0, cfg.Workspace.Width, cfg.Workspace.Height)
	s.Workspace.Fill = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	s.Workspace.SetSelectable(false)
	s.Scene.SetWorkspace(s.Workspace)
	s.Scene.SetViewportTransform(geometry.Scale(cfg.Viewport.Zoom, cfg.Viewport.Zoom))
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the active configuration.
func (s *State) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// ApplyConfig replaces the configuration, updates the feature switches and
// emits EventConfigReloaded with the new config. Scene geometry is left
// alone.
func (s *State) ApplyConfig(cfg config.Config) {
	s.mu.Lock()
	s.config = cfg
	s.guidesEnabled = cfg.Guides.Enabled
	s.rulersEnabled = cfg.Rulers.Enabled
	s.rulerThickness = cfg.Rulers.Thickness
	s.mu.Unlock()
	s.Emit(EventConfigReloaded, cfg)
}

// GuidesEnabled reports whether snapping guides are on.
func (s *State) GuidesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guidesEnabled
}

// SetGuidesEnabled switches snapping guides and emits EventGuidesToggled.
func (s *State) SetGuidesEnabled(on bool) {
	s.mu.Lock()
	changed := s.guidesEnabled != on
	s.guidesEnabled = on
	s.mu.Unlock()
	if changed {
		s.Emit(EventGuidesToggled, on)
	}
}

// RulersEnabled reports whether the rulers are shown.
func (s *State) RulersEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rulersEnabled
}

// SetRulersEnabled shows or hides the rulers and emits EventRulersToggled.
func (s *State) SetRulersEnabled(on bool) {
	s.mu.Lock()
	changed := s.rulersEnabled != on
	s.rulersEnabled = on
	s.mu.Unlock()
	if changed {
		s.Emit(EventRulersToggled, on)
	}
}

// RulerThickness returns the ruler thickness in CSS pixels.
func (s *State) RulerThickness() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rulerThickness
}

// SetRulerThickness changes the ruler thickness. Non-positive values are
// rejected.
func (s *State) SetRulerThickness(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return fmt.Errorf("ruler thickness must be positive, got %v", t)
	}
	s.mu.Lock()
	changed := s.rulerThickness != t
	s.rulerThickness = t
	s.mu.Unlock()
	if changed {
		s.Emit(EventRulerThicknessChanged, t)
	}
	return nil
}

// SnapOptions derives the snapping options from the configuration.
func (s *State) SnapOptions() snap.Options {
	g := s.Config().Guides
	return snap.Options{MarginPx: g.MarginPx, OffsetPx: g.OffsetPx, Bypass: g.Bypass()}
}

// GuideOptions derives the guide style from the configuration.
func (s *State) GuideOptions() guides.Options {
	g := s.Config().Guides
	return guides.Options{LineWidth: g.LineWidth, Color: g.LineColor()}
}

// RulerOptions derives the ruler options from the configuration and the
// current thickness.
func (s *State) RulerOptions() ruler.Options {
	r := s.Config().Rulers
	tick, minor, text := r.Colors()
	return ruler.Options{
		Thickness:  s.RulerThickness(),
		FontSize:   r.FontSize,
		TickColor:  tick,
		MinorColor: minor,
		TextColor:  text,
	}
}

var palette = []color.NRGBA{
	{R: 59, G: 130, B: 246, A: 255},
	{R: 16, G: 185, B: 129, A: 255},
	{R: 245, G: 158, B: 11, A: 255},
	{R: 168, G: 85, B: 247, A: 255},
	{R: 236, G: 72, B: 153, A: 255},
}

// AddShape adds a shape of the given kind centered on the workspace, offset
// a little for each new shape so they do not stack exactly.
func (s *State) AddShape(kind scene.Kind) *scene.Shape {
	s.mu.Lock()
	n := s.shapeCount
	s.shapeCount++
	s.mu.Unlock()

	ws, ok := scene.RectOf(s.Workspace)
	if !ok {
		ws = geometry.NewRect(0, 0, 900, 1200)
	}
	w, h := ws.Width/4, ws.Height/8
	c := ws.Center()
	shift := float64(n%6) * 24

	name := "rect"
	if kind == scene.KindEllipse {
		name = "ellipse"
	}
	shape := scene.NewShape(fmt.Sprintf("%s-%d", name, n+1), kind, c.X-w/2+shift, c.Y-h/2+shift, w, h)
	shape.Fill = palette[n%len(palette)]
	s.Scene.Add(shape)
	s.Emit(EventSceneChanged, shape)
	return shape
}

// SeedDemo populates the workspace with a few shapes to drag around.
func (s *State) SeedDemo() {
	ws, ok := scene.RectOf(s.Workspace)
	if !ok {
		return
	}
	place := func(kind scene.Kind, name string, fx, fy, fw, fh float64, fill color.NRGBA) {
		sh := scene.NewShape(name, kind,
			ws.X+ws.Width*fx, ws.Y+ws.Height*fy, ws.Width*fw, ws.Height*fh)
		sh.Fill = fill
		s.Scene.Add(sh)
	}
	place(scene.KindRect, "header", 0.1, 0.06, 0.8, 0.1, palette[0])
	place(scene.KindEllipse, "badge", 0.15, 0.3, 0.2, 0.15, palette[1])
	place(scene.KindRect, "card", 0.55, 0.35, 0.3, 0.2, palette[2])
	place(scene.KindRect, "footer", 0.25, 0.8, 0.5, 0.08, palette[3])
	s.Emit(EventSceneChanged, nil)
}

// ClearShapes removes every object except the workspace.
func (s *State) ClearShapes() {
	for _, o := range s.Scene.Objects() {
		if o != s.Workspace {
			s.Scene.Remove(o)
		}
	}
	s.mu.Lock()
	s.shapeCount = 0
	s.mu.Unlock()
	s.Emit(EventSceneChanged, nil)
}

// FitWorkspace sets the viewport so that the workspace is centered in a
// view of the given CSS size with padding on every side.
func (s *State) FitWorkspace(viewW, viewH, padding float64) {
	ws, ok := scene.RectOf(s.Workspace)
	if !ok || ws.Width <= 0 || ws.Height <= 0 {
		return
	}
	availW := viewW - 2*padding
	availH := viewH - 2*padding
	if availW <= 0 || availH <= 0 {
		return
	}
	zoom := math.Min(availW/ws.Width, availH/ws.Height)
	s.Scene.SetViewportTransform(geometry.AffineTransform{
		A:  zoom,
		D:  zoom,
		TX: (viewW-ws.Width*zoom)/2 - ws.X*zoom,
		TY: (viewH-ws.Height*zoom)/2 - ws.Y*zoom,
	})
}
