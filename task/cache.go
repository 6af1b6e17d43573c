package task

import (
	"sync"
	"time"
)

// Cache is the in-memory store of fetched tasks plus the bookkeeping that
// keeps concurrent background work honest: at most one in-flight fetch per
// project, at most one pending mutation per task, and a monotonic generation
// number per operation so completions that arrive for a superseded request
// are discarded instead of overwriting fresher data.
//
// The event loop is the only mutator, but Begin* runs a check-and-set under
// the lock so a burst of spawn attempts inside one loop iteration still
// yields a single spawn.
type Cache struct {
	mu       sync.Mutex
	projects map[string]*projectEntry
	pending  map[string]*pendingMutation
	gen      uint64
}

type projectEntry struct {
	tasks     []Task
	inFlight  bool
	fetchGen  uint64
	fetchedAt time.Time
}

// pendingMutation correlates a spawned mutation with its completion: the
// generation assigned at spawn time and the pre-mutation value for rollback.
type pendingMutation struct {
	gen       uint64
	projectID string
	prior     Task
	deleted   bool // optimistic removal; rollback re-inserts
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		projects: make(map[string]*projectEntry),
		pending:  make(map[string]*pendingMutation),
	}
}

func (c *Cache) nextGen() uint64 {
	c.gen++
	return c.gen
}

func (c *Cache) entry(projectID string) *projectEntry {
	e, ok := c.projects[projectID]
	if !ok {
		e = &projectEntry{}
		c.projects[projectID] = e
	}
	return e
}

// BeginFetch marks a fetch in flight for the project and returns the
// generation to tag the spawned job with. ok is false when a fetch is
// already in flight; the duplicate request is suppressed, not queued.
func (c *Cache) BeginFetch(projectID string) (gen uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(projectID)
	if e.inFlight {
		return 0, false
	}
	e.inFlight = true
	e.fetchGen = c.nextGen()
	return e.fetchGen, true
}

// ApplyFetchResult applies a fetch completion. A generation mismatch means
// the request was superseded: nothing changes, not even the error surface.
// On success the project's sequence is replaced atomically (sorted); on
// error prior data is kept — stale-but-present beats empty.
func (c *Cache) ApplyFetchResult(projectID string, gen uint64, tasks []Task, err error) (applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.projects[projectID]
	if !exists || e.fetchGen != gen {
		return false
	}
	e.inFlight = false
	if err != nil {
		return true
	}

	next := make([]Task, len(tasks))
	copy(next, tasks)
	SortTasks(next)
	e.tasks = next
	e.fetchedAt = time.Now()
	return true
}

// Tasks returns the cached sequence for a project. The second result is
// false when the project has never been fetched.
func (c *Cache) Tasks(projectID string) ([]Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.projects[projectID]
	if !ok || e.fetchedAt.IsZero() {
		return nil, false
	}
	return e.tasks, true
}

// Get returns the cached task with the given id in the given project.
func (c *Cache) Get(projectID, taskID string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.projects[projectID]
	if !ok {
		return Task{}, false
	}
	for _, t := range e.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return Task{}, false
}

// FetchInFlight reports whether a fetch is outstanding for the project.
func (c *Cache) FetchInFlight(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.projects[projectID]
	return ok && e.inFlight
}

// FetchedAt returns the time of the last successful fetch.
func (c *Cache) FetchedAt(projectID string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.projects[projectID]; ok {
		return e.fetchedAt
	}
	return time.Time{}
}

// MutationPending reports whether a mutation is outstanding for the task.
// A second operation on the same task is rejected while this is true.
func (c *Cache) MutationPending(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.pending[taskID]
	return ok
}

// PendingTaskIDs returns the set of task IDs with an outstanding mutation,
// for rendering in-flight rows distinctly.
func (c *Cache) PendingTaskIDs() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]bool, len(c.pending))
	for id := range c.pending {
		out[id] = true
	}
	return out
}

// ApplyOptimisticMutation applies a local edit immediately so the interface
// reflects intent with zero latency, saving the pre-mutation value for
// rollback. ok is false when the task is not cached or already has a
// mutation pending.
func (c *Cache) ApplyOptimisticMutation(projectID, taskID string, m Mutation) (gen uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.pending[taskID]; busy {
		return 0, false
	}
	e, exists := c.projects[projectID]
	if !exists {
		return 0, false
	}
	for i, t := range e.tasks {
		if t.ID != taskID {
			continue
		}
		gen = c.nextGen()
		c.pending[taskID] = &pendingMutation{gen: gen, projectID: projectID, prior: t}
		e.tasks[i] = m.Apply(t)
		SortTasks(e.tasks)
		return gen, true
	}
	return 0, false
}

// ApplyOptimisticDelete removes the task locally, saving it for rollback.
func (c *Cache) ApplyOptimisticDelete(projectID, taskID string) (gen uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.pending[taskID]; busy {
		return 0, false
	}
	e, exists := c.projects[projectID]
	if !exists {
		return 0, false
	}
	for i, t := range e.tasks {
		if t.ID != taskID {
			continue
		}
		gen = c.nextGen()
		c.pending[taskID] = &pendingMutation{gen: gen, projectID: projectID, prior: t, deleted: true}
		e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
		return gen, true
	}
	return 0, false
}

// ApplyMutationResult resolves a pending mutation. Stale generations are a
// silent no-op. On success the optimistic value is replaced with the
// server-confirmed task (nil for deletes); on error the pre-mutation value
// is restored in full.
func (c *Cache) ApplyMutationResult(taskID string, gen uint64, confirmed *Task, err error) (applied, rolledBack bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[taskID]
	if !ok || p.gen != gen {
		return false, false
	}
	delete(c.pending, taskID)

	e, exists := c.projects[p.projectID]
	if !exists {
		// Project was invalidated while the job ran; nothing to reconcile.
		return true, false
	}

	if err != nil {
		if p.deleted {
			e.tasks = append(e.tasks, p.prior)
		} else {
			c.replace(e, taskID, p.prior)
		}
		SortTasks(e.tasks)
		return true, true
	}

	if confirmed != nil {
		c.replace(e, taskID, *confirmed)
		SortTasks(e.tasks)
	}
	return true, false
}

func (c *Cache) replace(e *projectEntry, taskID string, t Task) {
	for i := range e.tasks {
		if e.tasks[i].ID == taskID {
			e.tasks[i] = t
			return
		}
	}
	// The optimistic value can be gone if a fetch replaced the sequence in
	// the meantime; the confirmed task still belongs in the project.
	e.tasks = append(e.tasks, t)
}

// Insert adds a server-confirmed task (the create path has no optimistic
// entry — there is no id before the server answers).
func (c *Cache) Insert(t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(t.ProjectID)
	e.tasks = append(e.tasks, t)
	SortTasks(e.tasks)
}

// Invalidate drops a project's cached tasks. Eviction only ever happens
// through this explicit call; switching projects keeps stale data visible
// while the refetch runs.
func (c *Cache) Invalidate(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.projects, projectID)
}
