package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"taskdeck/task"
)

// Filter narrows the task list by due date.
type Filter int

const (
	FilterAll Filter = iota
	FilterToday
	FilterWeek
)

func (f Filter) String() string {
	switch f {
	case FilterToday:
		return "today"
	case FilterWeek:
		return "week"
	default:
		return "all"
	}
}

var listBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOverlay).
	Padding(0, 1)

var taskRowStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(ColorText)

var selectedTaskStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorIris).
	Foreground(ColorBase)

var activeTaskStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorOverlay).
	Foreground(ColorText)

// pendingTaskStyle dims rows whose mutation is awaiting confirmation.
var pendingTaskStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(ColorMuted)

// markedTaskStyle highlights rows inside the visual selection.
var markedTaskStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorOverlay).
	Foreground(ColorGold)

var filterTabStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(ColorSubtle)

var filterTabActiveStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(ColorIris).
	Foreground(ColorBase).
	Bold(true)

var doneGlyphStyle = lipgloss.NewStyle().Foreground(ColorFoam)
var openGlyphStyle = lipgloss.NewStyle().Foreground(ColorMuted)
var pendingGlyphStyle = lipgloss.NewStyle().Foreground(ColorGold)
var overdueStyle = lipgloss.NewStyle().Foreground(ColorLove)
var dueTodayStyle = lipgloss.NewStyle().Foreground(ColorGold)
var dueLaterStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
var emptyListStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(1, 1)

func priorityGlyph(p task.Priority) (string, lipgloss.Style) {
	switch p {
	case task.PriorityHigh:
		return "!!", lipgloss.NewStyle().Foreground(ColorPriorityHigh)
	case task.PriorityMedium:
		return "! ", lipgloss.NewStyle().Foreground(ColorPriorityMedium)
	case task.PriorityLow:
		return "· ", lipgloss.NewStyle().Foreground(ColorPriorityLow)
	default:
		return "  ", lipgloss.NewStyle()
	}
}

// List is the task list pane: filter tabs on top, one row per visible task.
type List struct {
	tasks   []task.Task
	visible []task.Task
	pending map[string]bool
	marked  map[string]bool
	filter  Filter
	now     func() time.Time

	selectedIdx   int
	scrollOffset  int
	width, height int
	focused       bool
	loaded        bool
}

func NewList() *List {
	return &List{
		pending: map[string]bool{},
		now:     time.Now,
	}
}

// SetTasks replaces the task slice, re-applies the filter, and preserves the
// selection by ID when the task is still visible.
func (l *List) SetTasks(tasks []task.Task) {
	selectedID := l.GetSelectedID()
	l.tasks = tasks
	l.loaded = true
	l.applyFilter()
	if selectedID != "" && l.SelectByID(selectedID) {
		return
	}
	if l.selectedIdx >= len(l.visible) {
		l.selectedIdx = len(l.visible) - 1
	}
	if l.selectedIdx < 0 {
		l.selectedIdx = 0
	}
	l.clampScroll()
}

// SetPending marks which task IDs have a mutation awaiting confirmation.
func (l *List) SetPending(pending map[string]bool) {
	l.pending = pending
}

// SetMarked sets the visual selection by task ID; nil clears it.
func (l *List) SetMarked(marked map[string]bool) {
	l.marked = marked
}

// Loaded reports whether SetTasks has been called at least once for the
// current project.
func (l *List) Loaded() bool {
	return l.loaded
}

// Reset clears the list back to its unloaded state, for project switches.
func (l *List) Reset() {
	l.tasks = nil
	l.visible = nil
	l.marked = nil
	l.loaded = false
	l.selectedIdx = 0
	l.scrollOffset = 0
}

func (l *List) SetFilter(f Filter) {
	if l.filter == f {
		return
	}
	l.filter = f
	selectedID := l.GetSelectedID()
	l.applyFilter()
	if selectedID == "" || !l.SelectByID(selectedID) {
		l.selectedIdx = 0
		l.scrollOffset = 0
	}
}

func (l *List) Filter() Filter {
	return l.filter
}

func (l *List) applyFilter() {
	now := l.now()
	l.visible = l.visible[:0]
	for _, t := range l.tasks {
		switch l.filter {
		case FilterToday:
			if !t.DueToday(now) {
				continue
			}
		case FilterWeek:
			if !t.DueThisWeek(now) {
				continue
			}
		}
		l.visible = append(l.visible, t)
	}
}

func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampScroll()
}

func (l *List) SetFocused(focused bool) {
	l.focused = focused
}

// Visible returns the tasks shown under the current filter.
func (l *List) Visible() []task.Task {
	return l.visible
}

func (l *List) GetSelectedIdx() int {
	return l.selectedIdx
}

func (l *List) GetSelected() (task.Task, bool) {
	if l.selectedIdx < 0 || l.selectedIdx >= len(l.visible) {
		return task.Task{}, false
	}
	return l.visible[l.selectedIdx], true
}

func (l *List) GetSelectedID() string {
	t, ok := l.GetSelected()
	if !ok {
		return ""
	}
	return t.ID
}

func (l *List) SelectByID(id string) bool {
	for i, t := range l.visible {
		if t.ID == id {
			l.selectedIdx = i
			l.clampScroll()
			return true
		}
	}
	return false
}

func (l *List) Up() {
	if l.selectedIdx > 0 {
		l.selectedIdx--
		l.clampScroll()
	}
}

func (l *List) Down() {
	if l.selectedIdx < len(l.visible)-1 {
		l.selectedIdx++
		l.clampScroll()
	}
}

func (l *List) First() {
	l.selectedIdx = 0
	l.clampScroll()
}

func (l *List) Last() {
	if len(l.visible) > 0 {
		l.selectedIdx = len(l.visible) - 1
		l.clampScroll()
	}
}

// ClickItem selects the task at the given visible row index.
func (l *List) ClickItem(row int) {
	idx := l.scrollOffset + row
	if idx >= 0 && idx < len(l.visible) {
		l.selectedIdx = idx
		l.clampScroll()
	}
}

// availRows is the number of task rows that fit beneath the tab line.
func (l *List) availRows() int {
	rows := l.height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *List) clampScroll() {
	avail := l.availRows()
	if l.selectedIdx < l.scrollOffset {
		l.scrollOffset = l.selectedIdx
	}
	if l.selectedIdx >= l.scrollOffset+avail {
		l.scrollOffset = l.selectedIdx - avail + 1
	}
	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// dueLabel renders a short relative due label, colored by urgency.
func dueLabel(t task.Task, now time.Time) string {
	if t.Due == nil {
		return ""
	}
	due := t.Due.Local()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())

	var label string
	switch days := int(dueDay.Sub(today).Hours() / 24); {
	case days < 0:
		label = fmt.Sprintf("%dd ago", -days)
	case days == 0:
		label = "today"
	case days == 1:
		label = "tomorrow"
	case days < 7:
		label = due.Format("Mon")
	default:
		label = due.Format("Jan 2")
	}
	if !t.AllDay {
		label += due.Format(" 15:04")
	}

	switch {
	case dueDay.Before(today):
		return overdueStyle.Render(label)
	case dueDay.Equal(today):
		return dueTodayStyle.Render(label)
	default:
		return dueLaterStyle.Render(label)
	}
}

func (l *List) renderTabs() string {
	var tabs []string
	for i, f := range []Filter{FilterAll, FilterToday, FilterWeek} {
		style := filterTabStyle
		if f == l.filter {
			style = filterTabActiveStyle
		}
		tabs = append(tabs, zone.Mark(FilterZoneIDs[i], style.Render(f.String())))
	}
	return strings.Join(tabs, " ")
}

func (l *List) renderRow(t task.Task, idx int, contentWidth int) string {
	now := l.now()

	var check string
	switch {
	case l.pending[t.ID]:
		check = pendingGlyphStyle.Render("◌")
	case t.Done:
		check = doneGlyphStyle.Render("✓")
	default:
		check = openGlyphStyle.Render("☐")
	}

	prio, prioStyle := priorityGlyph(t.Priority)
	due := dueLabel(t, now)
	dueWidth := lipgloss.Width(due)
	if dueWidth > 0 {
		dueWidth++ // leading gap
	}

	// Layout: [check 2ch][prio 3ch][title...][gap...][due]
	maxTitle := contentWidth - 5 - dueWidth
	if maxTitle < 3 {
		maxTitle = 3
	}
	title := runewidth.Truncate(t.Title, maxTitle, "…")

	gap := contentWidth - 5 - runewidth.StringWidth(title) - dueWidth
	if gap < 0 {
		gap = 0
	}

	line := check + " " + prioStyle.Render(prio) + " " + title + strings.Repeat(" ", gap)
	if due != "" {
		line += " " + due
	}

	style := taskRowStyle
	switch {
	case idx == l.selectedIdx && l.focused:
		style = selectedTaskStyle
	case idx == l.selectedIdx:
		style = activeTaskStyle
	case l.marked[t.ID]:
		style = markedTaskStyle
	case l.pending[t.ID]:
		style = pendingTaskStyle
	}
	return zone.Mark(TaskRowZoneID(idx-l.scrollOffset), style.Render(line))
}

func (l *List) String() string {
	borderStyle := listBorderStyle
	if l.focused {
		borderStyle = borderStyle.Border(lipgloss.DoubleBorder()).BorderForeground(ColorIris)
	}

	innerWidth := l.width - 4
	if innerWidth < 12 {
		innerWidth = 12
	}
	contentWidth := innerWidth - 2

	var b strings.Builder
	b.WriteString(l.renderTabs())
	b.WriteString("\n\n")

	if len(l.visible) == 0 {
		if !l.loaded {
			b.WriteString(emptyListStyle.Render("loading…"))
		} else if l.filter == FilterAll {
			b.WriteString(emptyListStyle.Render("no tasks — press n to add one"))
		} else {
			b.WriteString(emptyListStyle.Render("nothing due " + l.filter.String()))
		}
	} else {
		avail := l.availRows()
		end := l.scrollOffset + avail
		if end > len(l.visible) {
			end = len(l.visible)
		}
		for i := l.scrollOffset; i < end; i++ {
			b.WriteString(l.renderRow(l.visible[i], i, contentWidth))
			b.WriteString("\n")
		}
	}

	content := lipgloss.NewStyle().Width(innerWidth).Render(b.String())
	return zone.Mark(ZoneTaskList, borderStyle.Height(l.height-2).Render(content))
}
