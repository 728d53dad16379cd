package app

import (
	"image/color"

	"design-canvas/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DesignerTheme is the application theme: slate chrome and a red accent
// matching the alignment guides.
type DesignerTheme struct{}

var _ fyne.Theme = (*DesignerTheme)(nil)

func (t *DesignerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.GuideRed
	case theme.ColorNameBackground:
		if variant == theme.VariantLight {
			return colorutil.RulerBackground
		}
		return theme.DefaultTheme().Color(name, variant)
	case theme.ColorNameSeparator:
		return colorutil.SlateFaint
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *DesignerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *DesignerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *DesignerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	default:
		return theme.DefaultTheme().Size(name)
	}
}
