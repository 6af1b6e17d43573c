package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestSortTasksOrdering(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	timed := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	later := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)

	tasks := []Task{
		{ID: "no-due-b", Title: "Zebra"},
		{ID: "later", Title: "later", Due: datePtr(later), AllDay: true},
		{ID: "all-day", Title: "all day", Due: datePtr(day), AllDay: true},
		{ID: "no-due-a", Title: "apple"},
		{ID: "timed", Title: "timed", Due: datePtr(timed)},
	}
	SortTasks(tasks)

	var ids []string
	for _, tk := range tasks {
		ids = append(ids, tk.ID)
	}
	// Earlier day first; same day timed before all-day; unset due last sorted
	// by case-insensitive title.
	assert.Equal(t, []string{"timed", "all-day", "later", "no-due-a", "no-due-b"}, ids)
}

func TestMutationApply(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	orig := Task{ID: "t1", Title: "old", Notes: "n", Priority: PriorityLow, Due: &due}

	title := "new"
	prio := PriorityHigh
	got := Mutation{Title: &title, Priority: &prio, ToggleDone: true}.Apply(orig)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.True(t, got.Done)
	assert.Equal(t, "n", got.Notes, "untouched fields survive")
	require.NotNil(t, got.Due)

	// Apply is pure.
	assert.Equal(t, "old", orig.Title)
	assert.False(t, orig.Done)
}

func TestMutationApplyClearDue(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	got := Mutation{ClearDue: true}.Apply(Task{Due: &due, AllDay: false})
	assert.Nil(t, got.Due)
	assert.False(t, got.AllDay)
}

func TestMutationApplyPostpone(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	got := Mutation{Postpone: 48 * time.Hour}.Apply(Task{Due: &due})
	require.NotNil(t, got.Due)
	assert.Equal(t, due.Add(48*time.Hour), *got.Due)

	// No due date: postpone is relative to now.
	before := time.Now()
	got = Mutation{Postpone: 24 * time.Hour}.Apply(Task{})
	require.NotNil(t, got.Due)
	assert.True(t, got.Due.After(before.Add(23*time.Hour)))
}

func TestMutationFromDraft(t *testing.T) {
	due := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	base := Task{Title: "title", Notes: "notes", Priority: PriorityMedium, Due: &due}

	t.Run("unchanged", func(t *testing.T) {
		_, changed := MutationFromDraft(base, Draft{
			Title: "title", Notes: "notes", Priority: PriorityMedium, Due: &due,
		})
		assert.False(t, changed)
	})

	t.Run("title and priority", func(t *testing.T) {
		m, changed := MutationFromDraft(base, Draft{
			Title: "renamed", Notes: "notes", Priority: PriorityHigh, Due: &due,
		})
		require.True(t, changed)
		require.NotNil(t, m.Title)
		assert.Equal(t, "renamed", *m.Title)
		require.NotNil(t, m.Priority)
		assert.Equal(t, PriorityHigh, *m.Priority)
		assert.Nil(t, m.Notes)
		assert.Nil(t, m.Due)
	})

	t.Run("due cleared", func(t *testing.T) {
		m, changed := MutationFromDraft(base, Draft{
			Title: "title", Notes: "notes", Priority: PriorityMedium,
		})
		require.True(t, changed)
		assert.True(t, m.ClearDue)
	})

	t.Run("timed to all-day", func(t *testing.T) {
		m, changed := MutationFromDraft(base, Draft{
			Title: "title", Notes: "notes", Priority: PriorityMedium,
			Due: &due, AllDay: true,
		})
		require.True(t, changed)
		require.NotNil(t, m.AllDay)
		assert.True(t, *m.AllDay)
	})
}

func TestDueTodayAndThisWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	overdue := Task{Due: datePtr(now.AddDate(0, 0, -3))}
	today := Task{Due: datePtr(time.Date(2026, 3, 10, 23, 0, 0, 0, time.Local))}
	tomorrow := Task{Due: datePtr(now.AddDate(0, 0, 1))}
	nextWeek := Task{Due: datePtr(now.AddDate(0, 0, 6))}
	farOut := Task{Due: datePtr(now.AddDate(0, 0, 8))}
	noDue := Task{}

	assert.True(t, overdue.DueToday(now), "overdue counts as today")
	assert.True(t, today.DueToday(now))
	assert.False(t, tomorrow.DueToday(now))
	assert.False(t, noDue.DueToday(now))

	assert.True(t, overdue.DueThisWeek(now))
	assert.True(t, tomorrow.DueThisWeek(now))
	assert.True(t, nextWeek.DueThisWeek(now))
	assert.False(t, farOut.DueThisWeek(now))
	assert.False(t, noDue.DueThisWeek(now))
}

func TestMutationDescribe(t *testing.T) {
	title := "x"
	prio := PriorityHigh
	m := Mutation{Title: &title, Priority: &prio}
	assert.Equal(t, "title, priority=high", m.Describe())

	assert.Equal(t, "no-op", Mutation{}.Describe())
	assert.Equal(t, "toggle done", Mutation{ToggleDone: true}.Describe())
}
