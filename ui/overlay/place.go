// Package overlay provides the modal overlays (text input, form, confirm,
// help) and the compositor that places them over the base view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var backdropStyle = lipgloss.NewStyle().Foreground(colorMuted)

// PlaceOverlay composites fg over bg at cell position (x, y). When center is
// set, x and y are ignored and fg is centered. When shade is set, the parts of
// bg still visible are de-emphasized so the overlay reads as modal.
// Both strings may contain ANSI styling; widths are measured in cells.
func PlaceOverlay(x, y int, fg, bg string, shade, center bool) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	fgWidth := 0
	for _, line := range fgLines {
		if w := ansi.StringWidth(line); w > fgWidth {
			fgWidth = w
		}
	}

	bgWidth := 0
	for _, line := range bgLines {
		if w := ansi.StringWidth(line); w > bgWidth {
			bgWidth = w
		}
	}
	bgHeight := len(bgLines)

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (bgHeight - len(fgLines)) / 2
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	if shade {
		for i, line := range bgLines {
			bgLines[i] = backdropStyle.Render(ansi.Strip(line))
		}
	}

	out := make([]string, len(bgLines))
	for i, bgLine := range bgLines {
		fgIdx := i - y
		if fgIdx < 0 || fgIdx >= len(fgLines) {
			out[i] = bgLine
			continue
		}

		fgLine := fgLines[fgIdx]
		lineWidth := ansi.StringWidth(fgLine)

		left := ansi.Truncate(bgLine, x, "")
		leftPad := x - ansi.StringWidth(left)
		if leftPad > 0 {
			left += strings.Repeat(" ", leftPad)
		}

		right := ansi.TruncateLeft(bgLine, x+lineWidth, "")

		out[i] = left + fgLine + right
	}

	return strings.Join(out, "\n")
}
