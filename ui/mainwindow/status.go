package mainwindow

import (
	"fmt"
	"strings"

	"design-canvas/internal/snap"
)

// describeSnap summarizes a snapped move for the status bar, e.g.
// "Snapped x to workspace-center 450".
func describeSnap(out snap.Outcome) string {
	var parts []string
	if m := out.Resolution.X; m != nil {
		parts = append(parts, fmt.Sprintf("x to %s %g", m.Source, m.Value))
	}
	if m := out.Resolution.Y; m != nil {
		parts = append(parts, fmt.Sprintf("y to %s %g", m.Source, m.Value))
	}
	if len(parts) == 0 {
		return "Free move"
	}
	return "Snapped " + strings.Join(parts, ", ")
}

func formatZoom(zoom float64) string {
	return fmt.Sprintf("%.0f%%", zoom*100)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
