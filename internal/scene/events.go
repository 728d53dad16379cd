package scene

import (
	"fmt"
	"strings"

	"design-canvas/pkg/geometry"
)

// EventType identifies scene events.
type EventType int

const (
	EventMouseDown EventType = iota
	EventMouseUp
	EventObjectMoving
	EventBeforeRender
	EventAfterRender
)

func (e EventType) String() string {
	switch e {
	case EventMouseDown:
		return "mouse:down"
	case EventMouseUp:
		return "mouse:up"
	case EventObjectMoving:
		return "object:moving"
	case EventBeforeRender:
		return "before:render"
	case EventAfterRender:
		return "after:render"
	default:
		return "unknown"
	}
}

// Modifier is a bit set of keyboard modifiers held during a pointer event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m2 != 0 && m&m2 == m2
}

// Event is delivered to handlers. Target is nil for render events.
type Event struct {
	Type      EventType
	Target    Object
	Pointer   geometry.Point2D // world coordinates
	Modifiers Modifier
}

// Handler receives scene events. Handlers run to completion on the
// dispatching goroutine.
type Handler func(ev Event)

// Subscription identifies an installed handler.
type Subscription uint64

// ParseModifier parses a modifier name such as "alt" or "shift".
// Names are case-insensitive; "option" is an alias for alt and "meta" and
// "cmd" for super.
func ParseModifier(name string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "super", "meta", "cmd":
		return ModSuper, nil
	}
	return 0, fmt.Errorf("scene: unknown modifier %q", name)
}
