package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"taskdeck/task"
)

var detailBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOverlay).
	Padding(0, 1)

var detailTitleStyle = lipgloss.NewStyle().
	Foreground(ColorIris).
	Bold(true)

var detailMetaKeyStyle = lipgloss.NewStyle().Foreground(ColorMuted)
var detailMetaValStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
var detailEmptyStyle = lipgloss.NewStyle().Foreground(ColorMuted)

// Detail shows the selected task: title, metadata, and its notes. Notes are
// markdown-rendered upstream (async) and handed in via SetRenderedNotes; until
// that lands the raw notes are word-wrapped as a fallback.
type Detail struct {
	task     task.Task
	hasTask  bool
	rendered string // glamour output for task.Notes, "" until delivered

	scrollOffset  int
	width, height int
}

func NewDetail() *Detail {
	return &Detail{}
}

func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetTask sets the task being shown. Changing tasks drops the rendered notes
// and resets scroll.
func (d *Detail) SetTask(t task.Task) {
	if d.hasTask && d.task.ID == t.ID {
		if d.task.Notes != t.Notes {
			d.rendered = ""
		}
		d.task = t
		return
	}
	d.task = t
	d.hasTask = true
	d.rendered = ""
	d.scrollOffset = 0
}

// Clear empties the pane (no task selected).
func (d *Detail) Clear() {
	d.hasTask = false
	d.rendered = ""
	d.scrollOffset = 0
}

// TaskID returns the ID of the task being shown, or "".
func (d *Detail) TaskID() string {
	if !d.hasTask {
		return ""
	}
	return d.task.ID
}

// SetRenderedNotes installs the markdown-rendered notes for the given task.
// Stale results for a previously shown task are ignored.
func (d *Detail) SetRenderedNotes(taskID, rendered string) {
	if d.hasTask && d.task.ID == taskID {
		d.rendered = rendered
	}
}

// NotesWrapWidth is the word-wrap width the async renderer should use.
func (d *Detail) NotesWrapWidth() int {
	w := d.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (d *Detail) ScrollUp() {
	if d.scrollOffset > 0 {
		d.scrollOffset--
	}
}

func (d *Detail) ScrollDown() {
	d.scrollOffset++
}

func (d *Detail) metaLine(key, val string) string {
	return detailMetaKeyStyle.Render(key+" ") + detailMetaValStyle.Render(val)
}

func (d *Detail) String() string {
	innerWidth := d.width - 4
	if innerWidth < 12 {
		innerWidth = 12
	}
	innerHeight := d.height - 2

	if !d.hasTask {
		content := detailEmptyStyle.Render("no task selected")
		return zone.Mark(ZoneDetailPane, detailBorderStyle.Width(innerWidth+2).Height(innerHeight).Render(content))
	}

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(wordwrap.String(d.task.Title, innerWidth)))
	b.WriteString("\n\n")

	if d.task.Due != nil {
		format := "Mon, Jan 2 2006"
		if !d.task.AllDay {
			format = "Mon, Jan 2 2006 15:04"
		}
		b.WriteString(d.metaLine("due", d.task.Due.Local().Format(format)))
		b.WriteString("\n")
	}
	if d.task.Priority != task.PriorityNone {
		b.WriteString(d.metaLine("priority", d.task.Priority.String()))
		b.WriteString("\n")
	}
	if d.task.Done {
		b.WriteString(d.metaLine("status", "done"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case d.rendered != "":
		b.WriteString(d.rendered)
	case d.task.Notes != "":
		b.WriteString(wordwrap.String(d.task.Notes, innerWidth))
	default:
		b.WriteString(detailEmptyStyle.Render("no notes"))
	}

	// Clamp scroll to the content.
	lines := strings.Split(b.String(), "\n")
	maxOffset := len(lines) - innerHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if d.scrollOffset > maxOffset {
		d.scrollOffset = maxOffset
	}
	visible := lines[d.scrollOffset:]

	content := lipgloss.NewStyle().Width(innerWidth).Render(strings.Join(visible, "\n"))
	return zone.Mark(ZoneDetailPane, detailBorderStyle.Height(innerHeight).Render(content))
}
