package app

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/config"
	"taskdeck/history"
	"taskdeck/log"
	"taskdeck/task"
	"taskdeck/ui"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	log.Initialize(false)
	defer log.Close()

	// View() emits zone markers; the global manager must exist.
	zone.NewGlobal()

	os.Exit(m.Run())
}

// fakeService is an in-memory task.Service for driving the event loop in
// tests without a network.
type fakeService struct {
	mu       sync.Mutex
	projects []task.Project
	tasks    map[string][]task.Task

	listErr   error
	updateErr error
	deleteErr error
	createErr error

	listCalls int
}

func newFakeService() *fakeService {
	return &fakeService{tasks: make(map[string][]task.Task)}
}

func (f *fakeService) ListProjects(ctx context.Context) ([]task.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects, nil
}

func (f *fakeService) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks[projectID], nil
}

func (f *fakeService) CreateTask(ctx context.Context, projectID string, draft task.Draft) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return task.Task{}, f.createErr
	}
	t := task.Task{ID: "created-1", ProjectID: projectID, Title: draft.Title, Notes: draft.Notes, Priority: draft.Priority, Due: draft.Due, AllDay: draft.AllDay}
	f.tasks[projectID] = append(f.tasks[projectID], t)
	return t, nil
}

func (f *fakeService) UpdateTask(ctx context.Context, projectID, taskID string, m task.Mutation) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return task.Task{}, f.updateErr
	}
	for i, t := range f.tasks[projectID] {
		if t.ID == taskID {
			f.tasks[projectID][i] = m.Apply(t)
			return f.tasks[projectID][i], nil
		}
	}
	return task.Task{}, errors.New("not found")
}

func (f *fakeService) DeleteTask(ctx context.Context, projectID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

// recordingJournal captures emitted events in memory.
type recordingJournal struct {
	events []history.Event
}

func (r *recordingJournal) Emit(e history.Event) { r.events = append(r.events, e) }
func (r *recordingJournal) Query(history.QueryFilter) ([]history.Event, error) {
	return r.events, nil
}
func (r *recordingJournal) Close() error { return nil }

func newTestHome(svc task.Service, journal history.Logger) *home {
	if journal == nil {
		journal = history.NopLogger()
	}
	h := &home{
		ctx:       context.Background(),
		service:   svc,
		cache:     task.NewCache(),
		journal:   journal,
		appConfig: config.DefaultConfig(),
		appState:  &config.State{HelpScreenSeen: true},
		state:     stateNormal,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		sidebar:   ui.NewSidebar(),
		list:      ui.NewList(),
		detail:    ui.NewDetail(),
		menu:      ui.NewMenu(),
		statusBar: ui.NewStatusBar(),
	}
	h.setFocus(focusList)
	h.updateHandleWindowSizeEvent(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// loadProject drives a full project fetch through the message loop.
func loadProject(t *testing.T, h *home, p task.Project, tasks []task.Task) {
	t.Helper()
	h.activeProject = p
	cmd := h.fetchTasksCmd(p.ID)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tasksResultMsg)
	require.True(t, ok)
	msg.tasks = tasks
	_, _ = h.handleTasksResult(msg)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key through handleKeyPress twice: the first pass is consumed
// by the menu-highlighting interceptor and re-sent.
func press(t *testing.T, h *home, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	if h.state == stateNormal {
		_, cmd := h.handleKeyPress(msg)
		require.NotNil(t, cmd, "highlight pass should re-send the key")
	}
	_, cmd := h.handleKeyPress(msg)
	return cmd
}

func TestFetchDedup(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	first := h.fetchTasksCmd("inbox")
	require.NotNil(t, first)

	// A second fetch while one is in flight is suppressed entirely.
	assert.Nil(t, h.fetchTasksCmd("inbox"))

	msg := first().(tasksResultMsg)
	_, _ = h.handleTasksResult(msg)
	assert.Equal(t, 1, svc.listCalls)

	assert.NotNil(t, h.fetchTasksCmd("inbox"))
}

func TestTasksResultPopulatesList(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		{ID: "t2", ProjectID: "inbox", Title: "beta"},
	})

	assert.Len(t, h.list.Visible(), 2)
	sel, ok := h.list.GetSelected()
	require.True(t, ok)
	assert.Equal(t, "alpha", sel.Title)
}

func TestTasksResultErrorKeepsStaleList(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
	})

	svc.listErr = errors.New("network down")
	cmd := h.fetchTasksCmd("inbox")
	require.NotNil(t, cmd)
	_, errCmd := h.handleTasksResult(cmd().(tasksResultMsg))

	// The error surfaces in the status bar; stale rows stay on screen.
	require.NotNil(t, errCmd)
	assert.Equal(t, "network down", h.statusText)
	assert.True(t, h.statusIsErr)
	assert.Len(t, h.list.Visible(), 1)
}

func TestToggleOptimisticThenConfirmed(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	cmd := h.toggleSelected()
	require.NotNil(t, cmd)

	// Optimistic flip is visible before the backend answers.
	sel, _ := h.list.GetSelected()
	assert.True(t, sel.Done)
	assert.True(t, h.cache.MutationPending("t1"))

	msg := cmd().(mutationResultMsg)
	require.NoError(t, msg.err)
	_, _ = h.handleMutationResult(msg)

	assert.False(t, h.cache.MutationPending("t1"))
	sel, _ = h.list.GetSelected()
	assert.True(t, sel.Done)
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventTaskCompleted, journal.events[0].Kind)
}

func TestToggleRollsBackOnBackendError(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	svc.updateErr = errors.New("503")
	cmd := h.toggleSelected()
	require.NotNil(t, cmd)

	msg := cmd().(mutationResultMsg)
	require.Error(t, msg.err)
	_, errCmd := h.handleMutationResult(msg)
	require.NotNil(t, errCmd)

	// Rolled back to the pre-mutation value, rollback journaled.
	sel, _ := h.list.GetSelected()
	assert.False(t, sel.Done)
	assert.True(t, h.statusIsErr)
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventRollback, journal.events[0].Kind)
}

func TestSecondToggleRejectedWhilePending(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	require.NotNil(t, h.toggleSelected())
	_ = h.toggleSelected()
	assert.Equal(t, "previous change still syncing", h.statusText)
}

func TestDeleteConfirmFlow(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('D'))
	require.Equal(t, stateConfirm, h.state)
	require.NotNil(t, h.confirmationOverlay)

	// y accepts and hands back the stored action.
	_, action := h.handleKeyPress(keyRune('y'))
	require.Equal(t, stateNormal, h.state)
	require.NotNil(t, action)

	del, ok := action().(deleteRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, "t1", del.task.ID)

	// The optimistic removal and backend call run from the message handler.
	backendCmd := h.handleDeleteRequested(del.task)
	assert.Empty(t, h.list.Visible())

	msg := backendCmd().(mutationResultMsg)
	require.NoError(t, msg.err)
	_, _ = h.handleMutationResult(msg)
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventTaskDeleted, journal.events[0].Kind)
}

func TestDeleteCancelKeepsTask(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('D'))
	require.Equal(t, stateConfirm, h.state)

	_, action := h.handleKeyPress(keyRune('n'))
	assert.Equal(t, stateNormal, h.state)
	assert.Nil(t, action)
	assert.Nil(t, h.pendingConfirmAction)
	assert.Len(t, h.list.Visible(), 1)
}

func TestDeleteRollbackReinsertsRow(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	svc.deleteErr = errors.New("404")
	backendCmd := h.handleDeleteRequested(svc.tasks["inbox"][0])
	assert.Empty(t, h.list.Visible())

	msg := backendCmd().(mutationResultMsg)
	require.Error(t, msg.err)
	_, _ = h.handleMutationResult(msg)
	assert.Len(t, h.list.Visible(), 1)
}

func TestCreateFlowSelectsNewTask(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, nil)

	created, err := svc.CreateTask(context.Background(), "inbox", task.Draft{Title: "new thing"})
	require.NoError(t, err)
	_, cmd := h.handleCreateResult(createResultMsg{projectID: "inbox", created: created})
	require.NotNil(t, cmd)

	sel, ok := h.list.GetSelected()
	require.True(t, ok)
	assert.Equal(t, "new thing", sel.Title)
	assert.Equal(t, "created new thing", h.statusText)
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventTaskCreated, journal.events[0].Kind)
}

func TestStatusExpiryIgnoresStaleSeq(t *testing.T) {
	h := newTestHome(newFakeService(), nil)

	_ = h.setStatus("first", false)
	staleSeq := h.statusSeq
	_ = h.setStatus("second", false)

	// The first banner's timer fires after the second banner was set.
	_, _ = h.Update(statusExpireMsg{seq: staleSeq})
	assert.Equal(t, "second", h.statusText)

	_, _ = h.Update(statusExpireMsg{seq: h.statusSeq})
	assert.Empty(t, h.statusText)
}

func TestModeTransitions(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // dismissing help persists state

	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	t.Run("editor opens and closes", func(t *testing.T) {
		press(t, h, keyRune('n'))
		require.Equal(t, stateEditing, h.state)
		require.NotNil(t, h.taskForm)

		_, _ = h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, stateNormal, h.state)
		assert.Nil(t, h.taskForm)
	})

	t.Run("postpone opens and closes", func(t *testing.T) {
		press(t, h, keyRune('p'))
		require.Equal(t, statePostpone, h.state)
		require.NotNil(t, h.textInputOverlay)

		_, _ = h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, stateNormal, h.state)
		assert.Nil(t, h.textInputOverlay)
	})

	t.Run("help opens and any key closes", func(t *testing.T) {
		press(t, h, keyRune('?'))
		require.Equal(t, stateHelp, h.state)

		_, _ = h.handleKeyPress(keyRune('x'))
		assert.Equal(t, stateNormal, h.state)
	})
}

func TestEditRejectedWhileMutationPending(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	require.NotNil(t, h.toggleSelected())
	require.Equal(t, stateProcessing, h.state)

	press(t, h, keyRune('e'))
	assert.Equal(t, stateProcessing, h.state, "editor must not open on a task with a pending mutation")
	assert.Equal(t, "previous change still syncing", h.statusText)
}

func TestPostponeSubmitDispatchesMutation(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('p'))
	require.Equal(t, statePostpone, h.state)

	// The default value "1d" is pre-filled; submit as-is.
	_, cmd := h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateProcessing, h.state)
	require.NotNil(t, cmd)

	sel, _ := h.list.GetSelected()
	require.NotNil(t, sel.Due, "optimistic postpone sets a due date")

	msg := cmd().(mutationResultMsg)
	require.NoError(t, msg.err)
	_, _ = h.handleMutationResult(msg)
	assert.Equal(t, stateNormal, h.state)
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventTaskPostponed, journal.events[0].Kind)
}

func TestRefreshGuardWhileFetchInFlight(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, nil)

	// Start a fetch and try to refresh before it lands.
	require.NotNil(t, h.fetchTasksCmd("inbox"))
	_ = h.refreshActive()
	assert.Equal(t, "refresh already running", h.statusText)
}

func TestProjectsResultPrefersConfiguredDefault(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)
	h.appConfig.DefaultProject = "work"

	projects := []task.Project{
		{ID: "inbox", Name: "Inbox", Default: true},
		{ID: "work", Name: "Work"},
	}
	_, cmd := h.handleProjectsResult(projectsResultMsg{projects: projects})
	require.NotNil(t, cmd, "selecting a project kicks off its fetch")
	assert.Equal(t, "work", h.activeProject.ID)
}

func TestProjectsResultFallsBackToBackendDefault(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	projects := []task.Project{
		{ID: "other", Name: "Other"},
		{ID: "inbox", Name: "Inbox", Default: true},
	}
	_, _ = h.handleProjectsResult(projectsResultMsg{projects: projects})
	assert.Equal(t, "inbox", h.activeProject.ID)
}

func TestSwitchProjectKeepsCachedTasks(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
	})
	loadProject(t, h, task.Project{ID: "work", Name: "Work"}, []task.Task{
		{ID: "t2", ProjectID: "work", Title: "beta"},
	})

	// Switching back to a cached project needs no fetch.
	h.activeProject = task.Project{}
	cmd := h.setActiveProject(task.Project{ID: "inbox", Name: "Inbox"})
	assert.Nil(t, cmd)
	require.Len(t, h.list.Visible(), 1)
	assert.Equal(t, "alpha", h.list.Visible()[0].Title)
}

func TestViewRendersWithoutPanic(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha", Notes: "some notes"},
	})
	h.sidebar.SetProjects([]task.Project{{ID: "inbox", Name: "Inbox", Default: true}})

	out := h.View()
	assert.NotEmpty(t, out)

	press(t, h, keyRune('?'))
	assert.NotEmpty(t, h.View(), "overlay view renders")
}

func TestStaleFetchErrorStaysSilent(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
	})

	// A fetch fails, but before its result lands the project is invalidated
	// and refetched. The failure belongs to a superseded generation.
	svc.listErr = errors.New("network down")
	stale := h.fetchTasksCmd("inbox")
	require.NotNil(t, stale)
	staleMsg := stale().(tasksResultMsg)
	require.Error(t, staleMsg.err)

	h.cache.Invalidate("inbox")
	svc.listErr = nil
	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	fresh := h.fetchTasksCmd("inbox")
	require.NotNil(t, fresh)

	// Delivering the superseded error must be a complete no-op: no banner,
	// no error styling, no follow-up command.
	_, cmd := h.handleTasksResult(staleMsg)
	assert.Nil(t, cmd)
	assert.Empty(t, h.statusText)
	assert.False(t, h.statusIsErr)

	// The fresh fetch still lands normally.
	_, _ = h.handleTasksResult(fresh().(tasksResultMsg))
	assert.Len(t, h.list.Visible(), 1)
}

func TestProcessingStateDuringMutation(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		{ID: "t2", ProjectID: "inbox", Title: "beta"},
	}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	cmd := h.toggleSelected()
	require.NotNil(t, cmd)
	require.Equal(t, stateProcessing, h.state)

	// Navigation stays live while the mutation is in flight.
	press(t, h, keyRune('j'))
	sel, _ := h.list.GetSelected()
	assert.Equal(t, "beta", sel.Title)

	// Operations on other tasks are allowed...
	other := h.toggleSelected()
	require.NotNil(t, other)
	require.Equal(t, stateProcessing, h.state)

	// ...but a second change to a syncing task is rejected.
	h.list.SelectByID("t1")
	_ = h.toggleSelected()
	assert.Equal(t, "previous change still syncing", h.statusText)

	// The state clears only when every verdict is in.
	_, _ = h.handleMutationResult(cmd().(mutationResultMsg))
	assert.Equal(t, stateProcessing, h.state, "one mutation still unresolved")
	_, _ = h.handleMutationResult(other().(mutationResultMsg))
	assert.Equal(t, stateNormal, h.state)
}

func TestPostponeInvalidInputKeepsOverlayOpen(t *testing.T) {
	svc := newFakeService()
	journal := &recordingJournal{}
	h := newTestHome(svc, journal)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('p'))
	require.Equal(t, statePostpone, h.state)

	// Make the pre-filled "1d" invalid and submit.
	_, _ = h.handleKeyPress(keyRune('z'))
	_, cmd := h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.Equal(t, statePostpone, h.state, "invalid duration keeps the input open")
	require.NotNil(t, h.textInputOverlay)
	assert.Contains(t, h.textInputOverlay.Render(), "duration")

	// Fixing the value submits normally.
	_, _ = h.handleKeyPress(tea.KeyMsg{Type: tea.KeyBackspace})
	_, cmd = h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, stateProcessing, h.state)

	_, _ = h.handleMutationResult(cmd().(mutationResultMsg))
	require.Len(t, journal.events, 1)
	assert.Equal(t, history.EventTaskPostponed, journal.events[0].Kind)
}

func TestVisualModeBatchToggle(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		{ID: "t2", ProjectID: "inbox", Title: "beta"},
		{ID: "t3", ProjectID: "inbox", Title: "gamma"},
	}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('v'))
	require.Equal(t, stateVisual, h.state)

	// Extend the selection one row down: two tasks marked.
	press(t, h, keyRune('j'))
	require.Len(t, h.visualTasks(), 2)

	cmd := press(t, h, keyRune('x'))
	require.NotNil(t, cmd)
	require.Equal(t, stateProcessing, h.state)
	assert.True(t, h.cache.MutationPending("t1"))
	assert.True(t, h.cache.MutationPending("t2"))
	assert.False(t, h.cache.MutationPending("t3"))

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	for _, inner := range batch {
		_, _ = h.handleMutationResult(inner().(mutationResultMsg))
	}

	assert.Equal(t, stateNormal, h.state)
	visible := h.list.Visible()
	assert.True(t, visible[0].Done)
	assert.True(t, visible[1].Done)
	assert.False(t, visible[2].Done)
}

func TestVisualModeDeleteConfirmsOnce(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		{ID: "t2", ProjectID: "inbox", Title: "beta"},
		{ID: "t3", ProjectID: "inbox", Title: "gamma"},
	}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('v'))
	press(t, h, keyRune('j'))
	_ = press(t, h, keyRune('D'))
	require.Equal(t, stateConfirm, h.state)

	_, action := h.handleKeyPress(keyRune('y'))
	require.NotNil(t, action)
	del, ok := action().(batchDeleteRequestedMsg)
	require.True(t, ok)
	require.Len(t, del.tasks, 2)

	_, backend := h.Update(del)
	require.NotNil(t, backend)
	assert.Len(t, h.list.Visible(), 1)
	assert.Equal(t, "gamma", h.list.Visible()[0].Title)
	assert.Equal(t, stateProcessing, h.state)
}

func TestVisualModePostponeBatch(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{
		{ID: "t1", ProjectID: "inbox", Title: "alpha"},
		{ID: "t2", ProjectID: "inbox", Title: "beta"},
	}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('v'))
	press(t, h, keyRune('G'))
	press(t, h, keyRune('p'))
	require.Equal(t, statePostpone, h.state)
	require.Len(t, h.postponeTasks, 2)

	_, cmd := h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	assert.Len(t, batch, 2)
}

func TestVisualModeExits(t *testing.T) {
	svc := newFakeService()
	h := newTestHome(svc, nil)

	svc.tasks["inbox"] = []task.Task{{ID: "t1", ProjectID: "inbox", Title: "alpha"}}
	loadProject(t, h, task.Project{ID: "inbox", Name: "Inbox"}, svc.tasks["inbox"])

	press(t, h, keyRune('v'))
	require.Equal(t, stateVisual, h.state)
	_, _ = h.handleKeyPress(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateNormal, h.state)

	// v toggles back out as well.
	press(t, h, keyRune('v'))
	require.Equal(t, stateVisual, h.state)
	_, _ = h.handleKeyPress(keyRune('v'))
	assert.Equal(t, stateNormal, h.state)
}
