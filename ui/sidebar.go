package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"taskdeck/task"
)

var sidebarTitleStyle = lipgloss.NewStyle().
	Background(ColorIris).
	Foreground(ColorBase).
	Padding(0, 1)

// sidebarBorderStyle wraps the entire sidebar content in a subtle rounded border
var sidebarBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOverlay).
	Padding(0, 1)

var projectItemStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(ColorText)

// selectedProjectStyle — focused: iris bg on dark base
var selectedProjectStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorIris).
	Foreground(ColorBase)

// activeProjectStyle — unfocused: muted overlay bg
var activeProjectStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorOverlay).
	Foreground(ColorText)

var sidebarDefaultGlyphStyle = lipgloss.NewStyle().
	Foreground(ColorFoam)

// Sidebar lists the user's projects and tracks which one is active.
type Sidebar struct {
	projects      []task.Project
	selectedIdx   int
	scrollOffset  int
	width, height int
	focused       bool
}

func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetProjects replaces the project list, preserving the selection by ID when
// the previously selected project still exists.
func (s *Sidebar) SetProjects(projects []task.Project) {
	selectedID := s.GetSelectedID()
	s.projects = projects
	if selectedID != "" && s.SelectByID(selectedID) {
		return
	}
	s.selectedIdx = 0
	s.scrollOffset = 0
}

func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.clampScroll()
}

func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// availRows is the number of project rows that fit inside the border and
// beneath the title line.
func (s *Sidebar) availRows() int {
	rows := s.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (s *Sidebar) clampScroll() {
	avail := s.availRows()
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+avail {
		s.scrollOffset = s.selectedIdx - avail + 1
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

func (s *Sidebar) GetSelectedIdx() int {
	return s.selectedIdx
}

// GetSelectedID returns the ID of the selected project, or "" when empty.
func (s *Sidebar) GetSelectedID() string {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.projects) {
		return ""
	}
	return s.projects[s.selectedIdx].ID
}

// GetSelected returns the selected project.
func (s *Sidebar) GetSelected() (task.Project, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.projects) {
		return task.Project{}, false
	}
	return s.projects[s.selectedIdx], true
}

// SelectByID moves the selection to the project with the given ID.
func (s *Sidebar) SelectByID(id string) bool {
	for i, p := range s.projects {
		if p.ID == id {
			s.selectedIdx = i
			s.clampScroll()
			return true
		}
	}
	return false
}

// SelectDefault moves the selection to the backend's default project.
func (s *Sidebar) SelectDefault() {
	for i, p := range s.projects {
		if p.Default {
			s.selectedIdx = i
			s.clampScroll()
			return
		}
	}
}

func (s *Sidebar) Up() {
	if s.selectedIdx > 0 {
		s.selectedIdx--
		s.clampScroll()
	}
}

func (s *Sidebar) Down() {
	if s.selectedIdx < len(s.projects)-1 {
		s.selectedIdx++
		s.clampScroll()
	}
}

// ClickItem selects the project at the given visible row index.
func (s *Sidebar) ClickItem(row int) {
	idx := s.scrollOffset + row
	if idx >= 0 && idx < len(s.projects) {
		s.selectedIdx = idx
		s.clampScroll()
	}
}

func (s *Sidebar) String() string {
	borderStyle := sidebarBorderStyle
	if s.focused {
		borderStyle = borderStyle.Border(lipgloss.DoubleBorder()).BorderForeground(ColorIris)
	}

	// Inner width accounts for border (2) + border padding (2) = 4
	innerWidth := s.width - 4
	if innerWidth < 8 {
		innerWidth = 8
	}

	var b strings.Builder
	b.WriteString(sidebarTitleStyle.Render("projects"))
	b.WriteString("\n\n")

	// Content area = innerWidth - 2 (Padding(0,1) in item styles)
	contentWidth := innerWidth - 2
	if contentWidth < 4 {
		contentWidth = 4
	}

	avail := s.availRows()
	end := s.scrollOffset + avail
	if end > len(s.projects) {
		end = len(s.projects)
	}

	for i := s.scrollOffset; i < end; i++ {
		p := s.projects[i]

		// Layout: [name...][gap...][default glyph 2ch]
		trail := ""
		trailWidth := 0
		if p.Default {
			trail = " " + sidebarDefaultGlyphStyle.Render("◆")
			trailWidth = 2
		}

		name := runewidth.Truncate(p.Name, contentWidth-trailWidth, "…")
		gap := contentWidth - runewidth.StringWidth(name) - trailWidth
		if gap < 0 {
			gap = 0
		}
		line := name + strings.Repeat(" ", gap) + trail

		style := projectItemStyle
		if i == s.selectedIdx {
			if s.focused {
				style = selectedProjectStyle
			} else {
				style = activeProjectStyle
			}
		}
		b.WriteString(zone.Mark(SidebarRowZoneID(i-s.scrollOffset), style.Render(line)))
		b.WriteString("\n")
	}

	content := lipgloss.NewStyle().Width(innerWidth).Render(b.String())
	return zone.Mark(ZoneSidebar, borderStyle.Height(s.height-2).Render(content))
}
