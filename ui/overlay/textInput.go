package overlay

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInputOverlay is a single-purpose text entry modal (postpone duration,
// quick rename).
type TextInputOverlay struct {
	textarea  textarea.Model
	Title     string
	Submitted bool
	Canceled  bool
	errMsg    string
	width     int
}

// NewTextInputOverlay creates a text input overlay with the given title and
// initial value.
func NewTextInputOverlay(title, initialValue string) *TextInputOverlay {
	ti := textarea.New()
	ti.SetValue(initialValue)
	ti.Focus()
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	ti.SetHeight(1)
	ti.CharLimit = 0
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()

	return &TextInputOverlay{
		textarea: ti,
		Title:    title,
		width:    44,
	}
}

// SetPlaceholder sets the textarea placeholder text.
func (t *TextInputOverlay) SetPlaceholder(text string) {
	t.textarea.Placeholder = text
}

// SetWidth sets the rendered width of the overlay box.
func (t *TextInputOverlay) SetWidth(width int) {
	t.width = width
	inner := width - 8
	if inner > 4 {
		t.textarea.SetWidth(inner)
	}
}

// HandleKeyPress processes a key press and returns true when the overlay
// should close.
func (t *TextInputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		t.Canceled = true
		return true
	case tea.KeyEnter:
		t.Submitted = true
		return true
	default:
		t.errMsg = ""
		t.textarea, _ = t.textarea.Update(msg)
		return false
	}
}

// SetError keeps the overlay open showing a validation message. It also
// clears Submitted so the next enter re-validates.
func (t *TextInputOverlay) SetError(msg string) {
	t.errMsg = msg
	t.Submitted = false
}

// GetValue returns the current value of the text input.
func (t *TextInputOverlay) GetValue() string {
	return t.textarea.Value()
}

// Render returns the styled overlay string.
func (t *TextInputOverlay) Render() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(colorIris).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	footer := hintStyle.Render("enter apply · esc cancel")
	if t.errMsg != "" {
		footer = lipgloss.NewStyle().
			Foreground(colorLove).
			MarginTop(1).
			Render(t.errMsg)
	}

	content := titleStyle.Render(t.Title) + "\n" +
		t.textarea.View() + "\n" +
		footer

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(t.width)

	return style.Render(content)
}
