package canvas

import (
	"design-canvas/internal/scene"
	"design-canvas/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// modifiersFrom maps fyne key modifiers onto scene modifiers.
func modifiersFrom(m fyne.KeyModifier) scene.Modifier {
	var mods scene.Modifier
	if m&fyne.KeyModifierShift != 0 {
		mods |= scene.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		mods |= scene.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		mods |= scene.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		mods |= scene.ModSuper
	}
	return mods
}

// modifierForKey returns the scene modifier a physical modifier key
// controls.
func modifierForKey(key fyne.KeyName) (scene.Modifier, bool) {
	switch key {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return scene.ModShift, true
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return scene.ModCtrl, true
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return scene.ModAlt, true
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return scene.ModSuper, true
	}
	return 0, false
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}
