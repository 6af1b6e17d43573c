package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/history"
	"taskdeck/task"
	"taskdeck/ui/overlay"
)

// fetchProjectsCmd loads the project list.
func (m *home) fetchProjectsCmd() tea.Cmd {
	svc := m.service
	ctx := m.ctx
	return func() tea.Msg {
		projects, err := svc.ListProjects(ctx)
		return projectsResultMsg{projects: projects, err: err}
	}
}

// fetchTasksCmd starts an async fetch for a project. The cache deduplicates:
// a second call while one is in flight returns nil and no work happens.
func (m *home) fetchTasksCmd(projectID string) tea.Cmd {
	gen, ok := m.cache.BeginFetch(projectID)
	if !ok {
		return nil
	}
	svc := m.service
	ctx := m.ctx
	return func() tea.Msg {
		tasks, err := svc.ListTasks(ctx, projectID)
		return tasksResultMsg{projectID: projectID, gen: gen, tasks: tasks, err: err}
	}
}

// refreshActive invalidates the active project and re-fetches it.
func (m *home) refreshActive() tea.Cmd {
	if m.activeProject.ID == "" {
		return nil
	}
	if m.cache.FetchInFlight(m.activeProject.ID) {
		return m.setStatus("refresh already running", false)
	}
	m.cache.Invalidate(m.activeProject.ID)
	m.list.Reset()
	return tea.Batch(m.fetchTasksCmd(m.activeProject.ID), m.fetchProjectsCmd())
}

// mutateTaskCmd applies a mutation to a task optimistically and dispatches
// the backend call. Rejected when the task already has a mutation in flight.
func (m *home) mutateTaskCmd(t task.Task, mut task.Mutation, kind history.EventKind) tea.Cmd {
	gen, ok := m.cache.ApplyOptimisticMutation(t.ProjectID, t.ID, mut)
	if !ok {
		return m.setStatus("previous change still syncing", false)
	}
	m.syncListFromCache()
	m.markProcessing()

	svc := m.service
	ctx := m.ctx
	detail := mut.Describe()
	return func() tea.Msg {
		confirmed, err := svc.UpdateTask(ctx, t.ProjectID, t.ID, mut)
		msg := mutationResultMsg{
			projectID: t.ProjectID,
			taskID:    t.ID,
			taskTitle: t.Title,
			gen:       gen,
			kind:      kind,
			detail:    detail,
			err:       err,
		}
		if err == nil {
			msg.confirmed = &confirmed
		}
		return msg
	}
}

// toggleSelected flips done on the selected task.
func (m *home) toggleSelected() tea.Cmd {
	t, ok := m.list.GetSelected()
	if !ok {
		return nil
	}
	kind := history.EventTaskCompleted
	if t.Done {
		kind = history.EventTaskReopened
	}
	return m.mutateTaskCmd(t, task.Mutation{ToggleDone: true}, kind)
}

// deleteSelected asks for confirmation, then deletes optimistically.
func (m *home) deleteSelected() tea.Cmd {
	t, ok := m.list.GetSelected()
	if !ok {
		return nil
	}
	if m.cache.MutationPending(t.ID) {
		return m.setStatus("previous change still syncing", false)
	}
	return m.confirmAction(fmt.Sprintf("Delete %q?", t.Title), m.deleteTaskCmd(t))
}

func (m *home) deleteTaskCmd(t task.Task) tea.Cmd {
	return func() tea.Msg {
		return deleteRequestedMsg{task: t}
	}
}

// deleteRequestedMsg runs after the confirmation closes so the optimistic
// removal happens back on the Update goroutine.
type deleteRequestedMsg struct {
	task task.Task
}

func (m *home) handleDeleteRequested(t task.Task) tea.Cmd {
	gen, ok := m.cache.ApplyOptimisticDelete(t.ProjectID, t.ID)
	if !ok {
		return m.setStatus("previous change still syncing", false)
	}
	m.syncListFromCache()
	m.markProcessing()

	svc := m.service
	ctx := m.ctx
	return func() tea.Msg {
		err := svc.DeleteTask(ctx, t.ProjectID, t.ID)
		return mutationResultMsg{
			projectID: t.ProjectID,
			taskID:    t.ID,
			taskTitle: t.Title,
			gen:       gen,
			kind:      history.EventTaskDeleted,
			err:       err,
		}
	}
}

// openEditor opens the task form for the selected task, or empty for create.
func (m *home) openEditor(existing *task.Task) {
	heading := "New task"
	initial := task.Task{}
	if existing != nil {
		heading = "Edit task"
		initial = *existing
	}
	m.editingTask = existing
	m.taskForm = overlay.NewTaskFormOverlay(heading, initial, int(float32(m.termWidth)*0.6))
	m.state = stateEditing
	m.syncMenu()
}

// submitEditor dispatches the form values: a create for new tasks, a diffed
// mutation for edits.
func (m *home) submitEditor() tea.Cmd {
	draft := m.taskForm.Draft()
	m.taskForm = nil
	m.state = m.idleState()
	m.syncMenu()

	if m.editingTask == nil {
		if m.activeProject.ID == "" {
			return m.setStatus("no project selected", true)
		}
		m.pendingCreates++
		m.markProcessing()
		projectID := m.activeProject.ID
		svc := m.service
		ctx := m.ctx
		return tea.Batch(
			m.setStatus("creating "+draft.Title, false),
			func() tea.Msg {
				created, err := svc.CreateTask(ctx, projectID, draft)
				return createResultMsg{projectID: projectID, created: created, err: err}
			},
		)
	}

	orig := *m.editingTask
	m.editingTask = nil
	mut, changed := task.MutationFromDraft(orig, draft)
	if !changed {
		return nil
	}
	return m.mutateTaskCmd(orig, mut, history.EventTaskEdited)
}

// startPostpone opens the duration input for the selected task.
func (m *home) startPostpone() {
	t, ok := m.list.GetSelected()
	if !ok {
		return
	}
	if m.cache.MutationPending(t.ID) {
		return
	}
	m.openPostpone([]task.Task{t})
}

func (m *home) openPostpone(tasks []task.Task) {
	m.postponeTasks = tasks
	m.textInputOverlay = overlay.NewTextInputOverlay("Postpone by", "1d")
	m.textInputOverlay.SetPlaceholder("1d, 2w, 3h…")
	m.state = statePostpone
	m.syncMenu()
}

// submitPostpone dispatches the already-validated duration to every task the
// input was opened for.
func (m *home) submitPostpone(d time.Duration) tea.Cmd {
	tasks := m.postponeTasks
	m.textInputOverlay = nil
	m.postponeTasks = nil
	m.state = m.idleState()
	m.syncMenu()

	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		cmds = append(cmds, m.mutateTaskCmd(t, task.Mutation{Postpone: d}, history.EventTaskPostponed))
	}
	return tea.Batch(cmds...)
}

// enterVisual starts visual select anchored at the current row.
func (m *home) enterVisual() {
	if m.focusedPanel != focusList {
		return
	}
	if _, ok := m.list.GetSelected(); !ok {
		return
	}
	m.visualAnchor = m.list.GetSelectedIdx()
	m.state = stateVisual
	m.list.SetMarked(markedIDs(m.visualTasks()))
	m.syncMenu()
}

func (m *home) exitVisual() {
	m.list.SetMarked(nil)
	m.state = m.idleState()
	m.syncMenu()
}

// visualTasks returns the tasks between the anchor and the cursor, inclusive.
func (m *home) visualTasks() []task.Task {
	visible := m.list.Visible()
	lo, hi := m.visualAnchor, m.list.GetSelectedIdx()
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(visible) {
		hi = len(visible) - 1
	}
	var out []task.Task
	for i := lo; i <= hi; i++ {
		out = append(out, visible[i])
	}
	return out
}

func markedIDs(tasks []task.Task) map[string]bool {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	return ids
}

// toggleVisual flips done on every marked task. Tasks that already have a
// mutation in flight are skipped rather than failing the whole batch.
func (m *home) toggleVisual() tea.Cmd {
	tasks := m.visualTasks()
	m.exitVisual()

	var cmds []tea.Cmd
	for _, t := range tasks {
		if m.cache.MutationPending(t.ID) {
			continue
		}
		kind := history.EventTaskCompleted
		if t.Done {
			kind = history.EventTaskReopened
		}
		cmds = append(cmds, m.mutateTaskCmd(t, task.Mutation{ToggleDone: true}, kind))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// deleteVisual asks once for the whole marked range, then deletes each task
// optimistically.
func (m *home) deleteVisual() tea.Cmd {
	var tasks []task.Task
	for _, t := range m.visualTasks() {
		if !m.cache.MutationPending(t.ID) {
			tasks = append(tasks, t)
		}
	}
	m.exitVisual()

	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return m.confirmAction(fmt.Sprintf("Delete %q?", tasks[0].Title), m.deleteTaskCmd(tasks[0]))
	default:
		return m.confirmAction(
			fmt.Sprintf("Delete %d tasks?", len(tasks)),
			func() tea.Msg { return batchDeleteRequestedMsg{tasks: tasks} },
		)
	}
}

// batchDeleteRequestedMsg mirrors deleteRequestedMsg for a visual range.
type batchDeleteRequestedMsg struct {
	tasks []task.Task
}

// startPostponeVisual opens the duration input for the marked range.
func (m *home) startPostponeVisual() {
	var tasks []task.Task
	for _, t := range m.visualTasks() {
		if !m.cache.MutationPending(t.ID) {
			tasks = append(tasks, t)
		}
	}
	m.exitVisual()
	if len(tasks) == 0 {
		return
	}
	m.openPostpone(tasks)
}

// yankSelected copies the selected task's title to the clipboard.
func (m *home) yankSelected() tea.Cmd {
	t, ok := m.list.GetSelected()
	if !ok {
		return nil
	}
	if err := clipboard.WriteAll(t.Title); err != nil {
		return m.handleError(fmt.Errorf("clipboard: %w", err))
	}
	return m.setStatus("copied to clipboard", false)
}

// confirmAction shows a confirmation modal and stores the action to execute on
// confirm. The action is returned from Update() to run asynchronously — never
// called synchronously, which would block the UI.
func (m *home) confirmAction(message string, action tea.Cmd) tea.Cmd {
	m.state = stateConfirm
	m.pendingConfirmAction = action

	m.confirmationOverlay = overlay.NewConfirmationOverlay(message)
	m.confirmationOverlay.SetWidth(50)
	m.syncMenu()

	return nil
}
