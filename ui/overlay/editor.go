package overlay

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/task"
)

// TaskFormOverlay is the task editor modal backed by huh.Form, used for both
// creating and editing tasks.
type TaskFormOverlay struct {
	form *huh.Form

	titleVal string
	notesVal string
	dateVal  string // YYYY-MM-DD, empty = no due date
	timeVal  string // HH:MM, empty = all-day
	prioVal  task.Priority

	heading   string
	errMsg    string
	submitted bool
	canceled  bool
	width     int
}

// NewTaskFormOverlay creates the editor pre-filled from initial. A zero
// initial task yields an empty creation form.
func NewTaskFormOverlay(heading string, initial task.Task, width int) *TaskFormOverlay {
	f := &TaskFormOverlay{
		heading:  heading,
		width:    width,
		titleVal: initial.Title,
		notesVal: initial.Notes,
		prioVal:  initial.Priority,
	}
	if initial.Due != nil {
		f.dateVal = initial.Due.Local().Format("2006-01-02")
		if !initial.AllDay {
			f.timeVal = initial.Due.Local().Format("15:04")
		}
	}

	formWidth := width - 6
	if formWidth < 34 {
		formWidth = 34
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("title").
				Value(&f.titleVal),
			huh.NewText().
				Key("notes").
				Title("notes").
				Lines(3).
				Value(&f.notesVal),
			huh.NewInput().
				Key("date").
				Title("due date (YYYY-MM-DD, empty = none)").
				Value(&f.dateVal),
			huh.NewInput().
				Key("time").
				Title("time (HH:MM, empty = all day)").
				Value(&f.timeVal),
			huh.NewSelect[task.Priority]().
				Key("priority").
				Title("priority").
				Options(
					huh.NewOption("none", task.PriorityNone),
					huh.NewOption("low", task.PriorityLow),
					huh.NewOption("medium", task.PriorityMedium),
					huh.NewOption("high", task.PriorityHigh),
				).
				Value(&f.prioVal),
		),
	).
		WithTheme(ThemeRosePine()).
		WithWidth(formWidth).
		WithShowHelp(false).
		WithShowErrors(false)

	_ = f.form.Init()

	return f
}

func (f *TaskFormOverlay) updateForm(msg tea.Msg) {
	updated, _ := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
}

// HandleKeyPress processes a key and returns true when the overlay should close.
func (f *TaskFormOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		f.canceled = true
		return true

	case tea.KeyEnter:
		if strings.TrimSpace(f.titleVal) == "" {
			f.errMsg = "title is required"
			return false
		}
		if _, err := f.parseDue(); err != nil {
			f.errMsg = err.Error()
			return false
		}
		f.submitted = true
		return true

	case tea.KeyTab, tea.KeyDown:
		f.errMsg = ""
		f.updateForm(huh.NextField())
		return false

	case tea.KeyShiftTab, tea.KeyUp:
		f.errMsg = ""
		f.updateForm(huh.PrevField())
		return false

	default:
		f.errMsg = ""
		f.updateForm(msg)
		return false
	}
}

// IsSubmitted returns whether the form was submitted.
func (f *TaskFormOverlay) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled returns whether the form was canceled.
func (f *TaskFormOverlay) IsCanceled() bool {
	return f.canceled
}

type parsedDue struct {
	due    *time.Time
	allDay bool
}

func (f *TaskFormOverlay) parseDue() (parsedDue, error) {
	dateStr := strings.TrimSpace(f.dateVal)
	timeStr := strings.TrimSpace(f.timeVal)
	if dateStr == "" {
		if timeStr != "" {
			return parsedDue{}, fmt.Errorf("time given without a date")
		}
		return parsedDue{}, nil
	}

	day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return parsedDue{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", dateStr)
	}

	if timeStr == "" {
		return parsedDue{due: &day, allDay: true}, nil
	}

	clock, err := time.Parse("15:04", timeStr)
	if err != nil {
		return parsedDue{}, fmt.Errorf("invalid time %q (want HH:MM)", timeStr)
	}
	due := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
	return parsedDue{due: &due}, nil
}

// Draft returns the edited values. Only valid after IsSubmitted.
func (f *TaskFormOverlay) Draft() task.Draft {
	parsed, _ := f.parseDue()
	return task.Draft{
		Title:    strings.TrimSpace(f.titleVal),
		Notes:    f.notesVal,
		Priority: f.prioVal,
		Due:      parsed.due,
		AllDay:   parsed.allDay,
	}
}

// Render returns the styled overlay string.
func (f *TaskFormOverlay) Render() string {
	w := f.width
	if w < 40 {
		w = 40
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(colorIris).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	errStyle := lipgloss.NewStyle().
		Foreground(colorLove).
		MarginTop(1)

	content := titleStyle.Render(f.heading) + "\n"
	content += f.form.View() + "\n"
	if f.errMsg != "" {
		content += errStyle.Render(f.errMsg)
	} else {
		content += hintStyle.Render("tab/↑↓ navigate · enter save · esc cancel")
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(w)

	return style.Render(content)
}
