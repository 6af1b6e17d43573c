package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/keys"
)

var keyStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

var descStyle = lipgloss.NewStyle().Foreground(ColorMuted)

var sepStyle = lipgloss.NewStyle().Foreground(ColorOverlay)

var separator = " • "
var verticalSeparator = " │ "

// MenuState represents different states the menu can be in
type MenuState int

const (
	StateDefault MenuState = iota
	StateEmpty
	StateEditing
	StateConfirm
	StateVisual
)

// Menu is the bottom keybinding rail.
type Menu struct {
	options       []keys.KeyName
	height, width int
	state         MenuState

	// keyDown is the key currently pressed, for press feedback. -1 = none.
	keyDown keys.KeyName

	// systemGroupSize is the number of items in the trailing system group
	// (used for separator placement).
	systemGroupSize int
}

var defaultMenuOptions = []keys.KeyName{
	keys.KeyNew, keys.KeyEdit, keys.KeyToggle, keys.KeyDelete, keys.KeyPostpone,
	keys.KeyRefresh, keys.KeyHelp, keys.KeyQuit,
}
var emptyMenuOptions = []keys.KeyName{keys.KeyNew, keys.KeyRefresh, keys.KeyHelp, keys.KeyQuit}
var editingMenuOptions = []keys.KeyName{keys.KeySubmit}
var visualMenuOptions = []keys.KeyName{
	keys.KeyToggle, keys.KeyDelete, keys.KeyPostpone, keys.KeyVisual,
}

func NewMenu() *Menu {
	return &Menu{
		options:         emptyMenuOptions,
		state:           StateEmpty,
		keyDown:         -1,
		systemGroupSize: 3,
	}
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// SetState updates the menu state and options accordingly
func (m *Menu) SetState(state MenuState) {
	m.state = state
	switch state {
	case StateDefault:
		m.options = defaultMenuOptions
		m.systemGroupSize = 3 // refresh, ? help, q quit
	case StateEmpty:
		m.options = emptyMenuOptions
		m.systemGroupSize = 3
	case StateEditing, StateConfirm:
		m.options = editingMenuOptions
		m.systemGroupSize = 0
	case StateVisual:
		m.options = visualMenuOptions
		m.systemGroupSize = 0
	}
}

// SetSize sets the width of the window. The menu is centered within it.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	if m.state == StateConfirm {
		content := keyStyle.Render("y") + " " + descStyle.Render("confirm") +
			sepStyle.Render(separator) +
			keyStyle.Render("n/esc") + " " + descStyle.Render("cancel")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}

	sysStart := len(m.options) - m.systemGroupSize

	var b strings.Builder
	for i, k := range m.options {
		binding := keys.GlobalkeyBindings[k]
		help := binding.Help()

		localKeyStyle := keyStyle
		localDescStyle := descStyle
		if m.keyDown == k {
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		b.WriteString(localKeyStyle.Render(help.Key))
		b.WriteString(" ")
		b.WriteString(localDescStyle.Render(help.Desc))

		if i != len(m.options)-1 {
			if m.systemGroupSize > 0 && i == sysStart-1 {
				b.WriteString(sepStyle.Render(verticalSeparator))
			} else {
				b.WriteString(sepStyle.Render(separator))
			}
		}
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
