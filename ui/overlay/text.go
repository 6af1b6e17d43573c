package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextOverlay is a scrollable read-only text modal, used for the help screen.
type TextOverlay struct {
	content   string
	width     int
	Dismissed bool

	// OnDismiss runs when the overlay is closed.
	OnDismiss func()
}

// NewTextOverlay creates a text overlay with the given content.
func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{
		content: content,
		width:   60,
	}
}

// SetWidth sets the rendered width of the overlay box.
func (t *TextOverlay) SetWidth(width int) {
	t.width = width
}

// HandleKeyPress processes a key press and returns true when the overlay
// should close. Any key dismisses it.
func (t *TextOverlay) HandleKeyPress(_ tea.KeyMsg) bool {
	t.Dismissed = true
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
	return true
}

// Render returns the styled overlay string.
func (t *TextOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(t.width)

	return style.Render(t.content)
}
