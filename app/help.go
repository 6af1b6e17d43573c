package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/keys"
	"taskdeck/ui"
	"taskdeck/ui/overlay"
)

var helpTitleStyle = lipgloss.NewStyle().Foreground(ui.ColorIris).Bold(true)
var helpSectionStyle = lipgloss.NewStyle().Foreground(ui.ColorFoam).MarginTop(1)
var helpKeyStyle = lipgloss.NewStyle().Foreground(ui.ColorSubtle).Width(10)
var helpDescStyle = lipgloss.NewStyle().Foreground(ui.ColorText)
var helpHintStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted).MarginTop(1)

type helpSection struct {
	title string
	keys  []keys.KeyName
}

var helpSections = []helpSection{
	{"navigate", []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyFirst, keys.KeyLast, keys.KeyTab}},
	{"tasks", []keys.KeyName{keys.KeyNew, keys.KeyEdit, keys.KeyToggle, keys.KeyDelete, keys.KeyPostpone, keys.KeyVisual, keys.KeyYank}},
	{"views", []keys.KeyName{keys.KeyFilterAll, keys.KeyFilterToday, keys.KeyFilterWeek, keys.KeyRefresh}},
	{"app", []keys.KeyName{keys.KeyHelp, keys.KeyQuit}},
}

func helpText() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("taskdeck"))
	b.WriteString("\n")

	for _, section := range helpSections {
		b.WriteString(helpSectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, k := range section.keys {
			help := keys.GlobalkeyBindings[k].Help()
			b.WriteString(helpKeyStyle.Render(help.Key))
			b.WriteString(helpDescStyle.Render(help.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpHintStyle.Render("press any key to close"))
	return b.String()
}

func (m *home) openHelp() {
	m.textOverlay = overlay.NewTextOverlay(helpText())
	width := int(float32(m.termWidth) * 0.6)
	if width < 40 {
		width = 40
	}
	m.textOverlay.SetWidth(width)
	m.state = stateHelp
}
