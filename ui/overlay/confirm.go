package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationOverlay is a y/n modal for destructive actions.
type ConfirmationOverlay struct {
	message   string
	width     int
	Confirmed bool
	Canceled  bool

	// OnConfirm runs when the user presses y.
	OnConfirm func()
	// OnCancel runs when the user presses n or esc.
	OnCancel func()
}

// NewConfirmationOverlay creates a confirmation overlay with the given message.
func NewConfirmationOverlay(message string) *ConfirmationOverlay {
	return &ConfirmationOverlay{
		message: message,
		width:   50,
	}
}

// SetWidth sets the rendered width of the overlay box.
func (c *ConfirmationOverlay) SetWidth(width int) {
	c.width = width
}

// HandleKeyPress processes a key press and returns true when the overlay
// should close.
func (c *ConfirmationOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y":
		c.Confirmed = true
		if c.OnConfirm != nil {
			c.OnConfirm()
		}
		return true
	case "n", "N", "esc":
		c.Canceled = true
		if c.OnCancel != nil {
			c.OnCancel()
		}
		return true
	default:
		return false
	}
}

// Render returns the styled overlay string.
func (c *ConfirmationOverlay) Render() string {
	messageStyle := lipgloss.NewStyle().Foreground(colorText)
	hintStyle := lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	content := messageStyle.Render(c.message) + "\n" +
		hintStyle.Render("y confirm · n cancel")

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorLove).
		Padding(1, 2).
		Width(c.width)

	return style.Render(content)
}
