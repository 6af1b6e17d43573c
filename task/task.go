// Package task holds the domain model and the in-memory cache the event
// loop reads from: tasks and projects, typed mutations, and the per-project
// fetch/mutation bookkeeping.
package task

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority is the task priority ladder. Backends that have no native
// priority field round-trip it through the notes marker (see backend docs).
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "none"
	}
}

// Task is a single task. ID and ProjectID are identity and never change;
// everything else is mutable through a Mutation.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Notes     string
	Done      bool
	Priority  Priority
	// Due is nil when the task has no due date. AllDay marks date-only due
	// dates; timed tasks sort ahead of all-day tasks on the same day.
	Due    *time.Time
	AllDay bool
}

// Project groups tasks. Default marks the backend's default list.
type Project struct {
	ID      string
	Name    string
	Default bool
}

// Draft is the payload for creating a new task.
type Draft struct {
	Title    string
	Notes    string
	Priority Priority
	Due      *time.Time
	AllDay   bool
}

// Mutation is a typed field change. Nil pointer fields are left untouched.
// Apply is pure so the cache can compute the optimistic value and roll it
// back from the saved prior on failure.
type Mutation struct {
	ToggleDone bool
	Title      *string
	Notes      *string
	Priority   *Priority
	Due        *time.Time
	AllDay     *bool
	ClearDue   bool
	// Postpone shifts the due date forward. Tasks without a due date get
	// now+Postpone.
	Postpone time.Duration
}

// Apply returns the task with the mutation applied.
func (m Mutation) Apply(t Task) Task {
	if m.ToggleDone {
		t.Done = !t.Done
	}
	if m.Title != nil {
		t.Title = *m.Title
	}
	if m.Notes != nil {
		t.Notes = *m.Notes
	}
	if m.Priority != nil {
		t.Priority = *m.Priority
	}
	switch {
	case m.ClearDue:
		t.Due = nil
		t.AllDay = false
	case m.Due != nil:
		due := *m.Due
		t.Due = &due
	}
	if m.AllDay != nil {
		t.AllDay = *m.AllDay
	}
	if m.Postpone > 0 {
		base := time.Now()
		if t.Due != nil {
			base = *t.Due
		}
		due := base.Add(m.Postpone)
		t.Due = &due
	}
	return t
}

// Describe returns a short label for status messages and the history journal.
func (m Mutation) Describe() string {
	var parts []string
	if m.ToggleDone {
		parts = append(parts, "toggle done")
	}
	if m.Title != nil {
		parts = append(parts, "title")
	}
	if m.Notes != nil {
		parts = append(parts, "notes")
	}
	if m.Priority != nil {
		parts = append(parts, fmt.Sprintf("priority=%s", *m.Priority))
	}
	if m.ClearDue {
		parts = append(parts, "clear due")
	} else if m.Due != nil {
		parts = append(parts, "due")
	}
	if m.Postpone > 0 {
		parts = append(parts, fmt.Sprintf("postpone %s", m.Postpone))
	}
	if len(parts) == 0 {
		return "no-op"
	}
	return strings.Join(parts, ", ")
}

// MutationFromDraft diffs an edited draft against the current task and
// returns the minimal mutation. ok is false when nothing changed.
func MutationFromDraft(t Task, d Draft) (Mutation, bool) {
	var m Mutation
	changed := false

	if d.Title != t.Title {
		title := d.Title
		m.Title = &title
		changed = true
	}
	if d.Notes != t.Notes {
		notes := d.Notes
		m.Notes = &notes
		changed = true
	}
	if d.Priority != t.Priority {
		prio := d.Priority
		m.Priority = &prio
		changed = true
	}

	switch {
	case d.Due == nil && t.Due != nil:
		m.ClearDue = true
		changed = true
	case d.Due != nil && (t.Due == nil || !d.Due.Equal(*t.Due) || d.AllDay != t.AllDay):
		due := *d.Due
		allDay := d.AllDay
		m.Due = &due
		m.AllDay = &allDay
		changed = true
	}

	return m, changed
}

// SortTasks orders tasks for display: due day first (unset last), timed
// entries before all-day entries on the same day, then exact due time, then
// title as the tiebreaker.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.Due == nil && b.Due == nil:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case a.Due == nil:
			return false
		case b.Due == nil:
			return true
		}

		ay, am, ad := a.Due.Date()
		by, bm, bd := b.Due.Date()
		if ay != by {
			return ay < by
		}
		if am != bm {
			return am < bm
		}
		if ad != bd {
			return ad < bd
		}

		// Same day: timed before all-day.
		if a.AllDay != b.AllDay {
			return !a.AllDay
		}
		if !a.Due.Equal(*b.Due) {
			return a.Due.Before(*b.Due)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

// DueToday reports whether the task is due on or before the end of day (in
// local time), i.e. due today or overdue.
func (t Task) DueToday(now time.Time) bool {
	if t.Due == nil {
		return false
	}
	y, m, d := now.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	return !t.Due.After(endOfDay)
}

// DueThisWeek reports whether the task is due within the next seven days,
// overdue tasks included.
func (t Task) DueThisWeek(now time.Time) bool {
	if t.Due == nil {
		return false
	}
	y, m, d := now.AddDate(0, 0, 7).Date()
	weekEnd := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	return !t.Due.After(weekEnd)
}
