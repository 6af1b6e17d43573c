package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, c *Cache, projectID string, tasks ...Task) {
	t.Helper()
	gen, ok := c.BeginFetch(projectID)
	require.True(t, ok)
	require.True(t, c.ApplyFetchResult(projectID, gen, tasks, nil))
}

func TestBeginFetchSuppressesDuplicates(t *testing.T) {
	c := NewCache()

	gen, ok := c.BeginFetch("inbox")
	require.True(t, ok)
	require.NotZero(t, gen)

	// Second spawn attempt while the first is in flight is rejected.
	_, ok = c.BeginFetch("inbox")
	assert.False(t, ok)
	assert.True(t, c.FetchInFlight("inbox"))

	// A different project fetches independently.
	_, ok = c.BeginFetch("work")
	assert.True(t, ok)

	require.True(t, c.ApplyFetchResult("inbox", gen, nil, nil))
	assert.False(t, c.FetchInFlight("inbox"))

	_, ok = c.BeginFetch("inbox")
	assert.True(t, ok)
}

func TestApplyFetchResultDiscardsStaleGeneration(t *testing.T) {
	c := NewCache()

	oldGen, ok := c.BeginFetch("inbox")
	require.True(t, ok)

	// The user refreshed: invalidate and refetch before the first completes.
	c.Invalidate("inbox")
	newGen, ok := c.BeginFetch("inbox")
	require.True(t, ok)
	require.NotEqual(t, oldGen, newGen)

	// The superseded completion must not touch anything.
	applied := c.ApplyFetchResult("inbox", oldGen, []Task{{ID: "stale", ProjectID: "inbox"}}, nil)
	assert.False(t, applied)
	assert.True(t, c.FetchInFlight("inbox"))
	_, ok = c.Tasks("inbox")
	assert.False(t, ok)

	applied = c.ApplyFetchResult("inbox", newGen, []Task{{ID: "fresh", ProjectID: "inbox"}}, nil)
	require.True(t, applied)
	tasks, ok := c.Tasks("inbox")
	require.True(t, ok)
	require.Len(t, tasks, 1)
	assert.Equal(t, "fresh", tasks[0].ID)
}

func TestApplyFetchResultErrorKeepsStaleData(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "keep me"})

	gen, ok := c.BeginFetch("inbox")
	require.True(t, ok)

	applied := c.ApplyFetchResult("inbox", gen, nil, errors.New("network down"))
	require.True(t, applied)
	assert.False(t, c.FetchInFlight("inbox"))

	tasks, ok := c.Tasks("inbox")
	require.True(t, ok)
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep me", tasks[0].Title)
}

func TestOptimisticMutationAndConfirm(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "buy milk"})

	gen, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	// Local state reflects intent immediately.
	got, ok := c.Get("inbox", "t1")
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.True(t, c.MutationPending("t1"))

	confirmed := Task{ID: "t1", ProjectID: "inbox", Title: "buy milk", Done: true}
	applied, rolledBack := c.ApplyMutationResult("t1", gen, &confirmed, nil)
	require.True(t, applied)
	assert.False(t, rolledBack)
	assert.False(t, c.MutationPending("t1"))
}

func TestOptimisticMutationRollsBackOnError(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "original", Priority: PriorityLow})

	title := "edited"
	prio := PriorityHigh
	gen, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{Title: &title, Priority: &prio})
	require.True(t, ok)

	got, _ := c.Get("inbox", "t1")
	assert.Equal(t, "edited", got.Title)

	applied, rolledBack := c.ApplyMutationResult("t1", gen, nil, errors.New("503"))
	require.True(t, applied)
	require.True(t, rolledBack)

	// Pre-mutation value restored in full.
	got, ok = c.Get("inbox", "t1")
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, PriorityLow, got.Priority)
	assert.False(t, c.MutationPending("t1"))
}

func TestSecondMutationRejectedWhilePending(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "task"})

	_, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	_, ok = c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	assert.False(t, ok, "second mutation on the same task must be rejected")

	_, ok = c.ApplyOptimisticDelete("inbox", "t1")
	assert.False(t, ok, "delete must also be rejected while a mutation is pending")
}

func TestOptimisticDeleteRollbackReinserts(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox",
		Task{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		Task{ID: "t2", ProjectID: "inbox", Title: "beta"},
	)

	gen, ok := c.ApplyOptimisticDelete("inbox", "t1")
	require.True(t, ok)

	tasks, _ := c.Tasks("inbox")
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)

	applied, rolledBack := c.ApplyMutationResult("t1", gen, nil, errors.New("404"))
	require.True(t, applied)
	require.True(t, rolledBack)

	tasks, _ = c.Tasks("inbox")
	require.Len(t, tasks, 2)
	_, ok = c.Get("inbox", "t1")
	assert.True(t, ok)
}

func TestOptimisticDeleteConfirmed(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "gone"})

	gen, ok := c.ApplyOptimisticDelete("inbox", "t1")
	require.True(t, ok)

	applied, rolledBack := c.ApplyMutationResult("t1", gen, nil, nil)
	require.True(t, applied)
	assert.False(t, rolledBack)

	tasks, _ := c.Tasks("inbox")
	assert.Empty(t, tasks)
	assert.False(t, c.MutationPending("t1"))
}

func TestApplyMutationResultStaleGenerationIsNoop(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "task"})

	gen, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	applied, rolledBack := c.ApplyMutationResult("t1", gen+99, nil, errors.New("stale"))
	assert.False(t, applied)
	assert.False(t, rolledBack)
	assert.True(t, c.MutationPending("t1"), "pending entry must survive a stale completion")
}

func TestMutationResultAfterInvalidate(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "task"})

	gen, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	c.Invalidate("inbox")

	// The pending entry still resolves; there is just no project to reconcile.
	applied, rolledBack := c.ApplyMutationResult("t1", gen, nil, errors.New("503"))
	assert.True(t, applied)
	assert.False(t, rolledBack)
	assert.False(t, c.MutationPending("t1"))
}

func TestConfirmAfterRefetchReinsertsConfirmedTask(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "task"})

	mutGen, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	// A fetch lands in between and replaces the sequence without t1.
	fetchGen, ok := c.BeginFetch("inbox")
	require.True(t, ok)
	require.True(t, c.ApplyFetchResult("inbox", fetchGen, []Task{{ID: "t2", ProjectID: "inbox"}}, nil))

	confirmed := Task{ID: "t1", ProjectID: "inbox", Title: "task", Done: true}
	applied, _ := c.ApplyMutationResult("t1", mutGen, &confirmed, nil)
	require.True(t, applied)

	got, ok := c.Get("inbox", "t1")
	require.True(t, ok)
	assert.True(t, got.Done)
}

func TestInsertKeepsOrder(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox", Task{ID: "t1", ProjectID: "inbox", Title: "beta"})

	c.Insert(Task{ID: "t2", ProjectID: "inbox", Title: "alpha"})

	tasks, ok := c.Tasks("inbox")
	require.True(t, ok)
	require.Len(t, tasks, 2)
	assert.Equal(t, "alpha", tasks[0].Title)
}

func TestPendingTaskIDs(t *testing.T) {
	c := NewCache()
	seedProject(t, c, "inbox",
		Task{ID: "t1", ProjectID: "inbox", Title: "a"},
		Task{ID: "t2", ProjectID: "inbox", Title: "b"},
	)

	_, ok := c.ApplyOptimisticMutation("inbox", "t1", Mutation{ToggleDone: true})
	require.True(t, ok)

	pending := c.PendingTaskIDs()
	assert.True(t, pending["t1"])
	assert.False(t, pending["t2"])
}

func TestTasksUnfetchedProject(t *testing.T) {
	c := NewCache()
	_, ok := c.Tasks("never-fetched")
	assert.False(t, ok)
	assert.True(t, c.FetchedAt("never-fetched").IsZero())
}
