package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarData holds the contextual information displayed in the status bar.
type StatusBarData struct {
	ProjectName  string
	OpenCount    int
	Syncing      bool   // a fetch or mutation is in flight
	SpinnerFrame string // current spinner frame while syncing
	Status       string // transient status banner, "" = none
	StatusError  bool   // render the banner in the error color
}

// StatusBar is the top status bar component.
type StatusBar struct {
	width int
	data  StatusBarData
}

// NewStatusBar creates a new StatusBar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetSize sets the terminal width for the status bar.
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetData updates the status bar content.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

var statusBarStyle = lipgloss.NewStyle().
	Background(ColorSurface).
	Foreground(ColorText).
	Padding(0, 1)

var statusBarAppNameStyle = lipgloss.NewStyle().
	Foreground(ColorIris).
	Background(ColorSurface).
	Bold(true)

var statusBarSepStyle = lipgloss.NewStyle().
	Foreground(ColorOverlay).
	Background(ColorSurface)

var statusBarProjectStyle = lipgloss.NewStyle().
	Foreground(ColorText).
	Background(ColorSurface)

var statusBarCountStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Background(ColorSurface)

var statusBarSyncStyle = lipgloss.NewStyle().
	Foreground(ColorFoam).
	Background(ColorSurface)

var statusBarBannerStyle = lipgloss.NewStyle().
	Foreground(ColorGold).
	Background(ColorSurface)

var statusBarErrorStyle = lipgloss.NewStyle().
	Foreground(ColorLove).
	Background(ColorSurface).
	Bold(true)

const statusBarSep = " │ "

func (s *StatusBar) String() string {
	if s.width < 10 {
		return ""
	}

	parts := make([]string, 0, 5)
	parts = append(parts, statusBarAppNameStyle.Render("taskdeck"))

	if s.data.ProjectName != "" {
		parts = append(parts, statusBarProjectStyle.Render(s.data.ProjectName))
		parts = append(parts, statusBarCountStyle.Render(fmt.Sprintf("%d open", s.data.OpenCount)))
	}

	if s.data.Syncing {
		frame := s.data.SpinnerFrame
		if frame == "" {
			frame = "●"
		}
		parts = append(parts, statusBarSyncStyle.Render(frame+" syncing"))
	}

	if s.data.Status != "" {
		style := statusBarBannerStyle
		if s.data.StatusError {
			style = statusBarErrorStyle
		}
		parts = append(parts, style.Render(s.data.Status))
	}

	sep := statusBarSepStyle.Render(statusBarSep)
	content := strings.Join(parts, sep)

	return statusBarStyle.Width(s.width).Render(content)
}
