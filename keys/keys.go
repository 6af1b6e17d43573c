package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyFirst
	KeyLast
	KeyQuit
	KeyHelp

	KeyNew    // create a new task
	KeyEdit   // edit the selected task
	KeyToggle // toggle done on the selected task
	KeyDelete // delete the selected task (with confirmation)
	KeyPostpone
	KeyRefresh // re-fetch the active project
	KeyYank    // copy the selected task title to the clipboard
	KeyVisual  // enter visual select for batch operations

	KeyTab // cycle focus between sidebar and list

	KeyFilterAll
	KeyFilterToday
	KeyFilterWeek

	KeySubmit // special binding shown while an overlay is open
)

// GlobalKeyStringsMap maps raw key strings to key names. It is consulted
// only in normal mode; overlays interpret their own input.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":    KeyUp,
	"k":     KeyUp,
	"down":  KeyDown,
	"j":     KeyDown,
	"g":     KeyFirst,
	"G":     KeyLast,
	"q":     KeyQuit,
	"?":     KeyHelp,
	"n":     KeyNew,
	"e":     KeyEdit,
	"enter": KeyEdit,
	" ":     KeyToggle,
	"x":     KeyToggle,
	"D":     KeyDelete,
	"p":     KeyPostpone,
	"r":     KeyRefresh,
	"y":     KeyYank,
	"v":     KeyVisual,
	"tab":   KeyTab,
	"1":     KeyFilterAll,
	"2":     KeyFilterToday,
	"3":     KeyFilterWeek,
}

// GlobalkeyBindings maps key names to bubbles bindings for the menu rail.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyFirst: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "first"),
	),
	KeyLast: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "last"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyNew: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new task"),
	),
	KeyEdit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e/↵", "edit"),
	),
	KeyToggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space/x", "toggle done"),
	),
	KeyDelete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	KeyPostpone: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "postpone"),
	),
	KeyRefresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	KeyYank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yank title"),
	),
	KeyVisual: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "visual select"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle panes"),
	),
	KeyFilterAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	KeyFilterToday: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "today"),
	),
	KeyFilterWeek: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "week"),
	),

	// -- Special keybindings --

	KeySubmit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
}
