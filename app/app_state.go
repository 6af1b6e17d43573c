package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"taskdeck/history"
	"taskdeck/log"
	"taskdeck/task"
	"taskdeck/ui"
)

// setFocus moves keyboard focus to the given pane.
func (m *home) setFocus(panel int) {
	m.focusedPanel = panel
	m.sidebar.SetFocused(panel == focusSidebar)
	m.list.SetFocused(panel == focusList)
}

// cycleFocus moves focus sidebar → list → detail → sidebar.
func (m *home) cycleFocus() {
	m.setFocus((m.focusedPanel + 1) % 3)
}

// idleState is where the app returns when no overlay is open: stateProcessing
// while any mutation or creation is still awaiting its backend verdict,
// stateNormal otherwise.
func (m *home) idleState() state {
	if m.pendingCreates > 0 || len(m.cache.PendingTaskIDs()) > 0 {
		return stateProcessing
	}
	return stateNormal
}

// markProcessing flips normal mode into stateProcessing after an optimistic
// change was dispatched. Overlay states are left alone; they land in
// stateProcessing through idleState when they close.
func (m *home) markProcessing() {
	if m.state == stateNormal {
		m.state = stateProcessing
		m.syncMenu()
	}
}

// setStatus shows a transient banner in the status bar and returns the timer
// command that clears it.
func (m *home) setStatus(text string, isErr bool) tea.Cmd {
	m.statusText = text
	m.statusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// handleError logs the error and surfaces it in the status bar.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	return m.setStatus(err.Error(), true)
}

func (m *home) refreshStatusBar() {
	syncing := false
	if m.activeProject.ID != "" {
		syncing = m.cache.FetchInFlight(m.activeProject.ID)
	}
	if !syncing && len(m.cache.PendingTaskIDs()) > 0 {
		syncing = true
	}

	open := 0
	for _, t := range m.list.Visible() {
		if !t.Done {
			open++
		}
	}

	m.statusBar.SetData(ui.StatusBarData{
		ProjectName:  m.activeProject.Name,
		OpenCount:    open,
		Syncing:      syncing,
		SpinnerFrame: m.spinner.View(),
		Status:       m.statusText,
		StatusError:  m.statusIsErr,
	})
}

// syncListFromCache refreshes the list pane from the cache's current view of
// the active project.
func (m *home) syncListFromCache() {
	if m.activeProject.ID == "" {
		return
	}
	if tasks, ok := m.cache.Tasks(m.activeProject.ID); ok {
		m.list.SetTasks(tasks)
	}
	m.list.SetPending(m.cache.PendingTaskIDs())
	m.syncDetail()
	m.syncMenu()
}

// syncDetail points the detail pane at the selected task.
func (m *home) syncDetail() {
	t, ok := m.list.GetSelected()
	if !ok {
		m.detail.Clear()
		return
	}
	m.detail.SetTask(t)
}

func (m *home) syncMenu() {
	switch m.state {
	case stateEditing, statePostpone:
		m.menu.SetState(ui.StateEditing)
	case stateConfirm:
		m.menu.SetState(ui.StateConfirm)
	case stateVisual:
		m.menu.SetState(ui.StateVisual)
	default:
		if _, ok := m.list.GetSelected(); ok {
			m.menu.SetState(ui.StateDefault)
		} else {
			m.menu.SetState(ui.StateEmpty)
		}
	}
}

// setActiveProject switches the list to another project, fetching it if the
// cache has nothing yet.
func (m *home) setActiveProject(p task.Project) tea.Cmd {
	if m.activeProject.ID == p.ID {
		return nil
	}
	m.activeProject = p
	m.list.Reset()
	m.appState.SetLastProject(p.ID)

	if tasks, ok := m.cache.Tasks(p.ID); ok {
		m.list.SetTasks(tasks)
		m.list.SetPending(m.cache.PendingTaskIDs())
		m.syncDetail()
		m.syncMenu()
		return nil
	}
	return m.fetchTasksCmd(p.ID)
}

func (m *home) handleProjectsResult(msg projectsResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.handleError(msg.err)
	}
	m.projects = msg.projects
	m.sidebar.SetProjects(msg.projects)

	if m.activeProject.ID == "" && len(msg.projects) > 0 {
		// Prefer the configured default project, then the last used one,
		// then the backend's default list.
		switch {
		case m.appConfig.DefaultProject != "" && m.sidebar.SelectByID(m.appConfig.DefaultProject):
		case m.appState.LastProject != "" && m.sidebar.SelectByID(m.appState.LastProject):
		default:
			m.sidebar.SelectDefault()
		}
		if p, ok := m.sidebar.GetSelected(); ok {
			m.activeProject = p
			return m, m.fetchTasksCmd(p.ID)
		}
	}
	return m, nil
}

func (m *home) handleTasksResult(msg tasksResultMsg) (tea.Model, tea.Cmd) {
	applied := m.cache.ApplyFetchResult(msg.projectID, msg.gen, msg.tasks, msg.err)
	if !applied {
		// Superseded completion: nothing changes, not even the error surface.
		return m, nil
	}
	if msg.err != nil {
		// Stale data, if any, stays on screen.
		return m, m.handleError(msg.err)
	}
	if msg.projectID != m.activeProject.ID {
		return m, nil
	}
	m.syncListFromCache()
	return m, m.renderNotesCmd()
}

func (m *home) handleMutationResult(msg mutationResultMsg) (tea.Model, tea.Cmd) {
	applied, rolledBack := m.cache.ApplyMutationResult(msg.taskID, msg.gen, msg.confirmed, msg.err)
	if m.state == stateProcessing {
		m.state = m.idleState()
	}
	if !applied && !rolledBack {
		m.syncMenu()
		return m, nil
	}
	m.syncListFromCache()

	if rolledBack {
		m.journal.Emit(history.Event{
			Kind:      history.EventRollback,
			Project:   msg.projectID,
			TaskID:    msg.taskID,
			TaskTitle: msg.taskTitle,
			Message:   msg.err.Error(),
			Detail:    msg.detail,
		})
		return m, m.handleError(msg.err)
	}

	m.journal.Emit(history.Event{
		Kind:      msg.kind,
		Project:   msg.projectID,
		TaskID:    msg.taskID,
		TaskTitle: msg.taskTitle,
		Detail:    msg.detail,
	})
	return m, nil
}

func (m *home) handleCreateResult(msg createResultMsg) (tea.Model, tea.Cmd) {
	if m.pendingCreates > 0 {
		m.pendingCreates--
	}
	if m.state == stateProcessing {
		m.state = m.idleState()
		m.syncMenu()
	}
	if msg.err != nil {
		return m, m.handleError(msg.err)
	}
	m.cache.Insert(msg.created)
	if msg.projectID == m.activeProject.ID {
		m.syncListFromCache()
		m.list.SelectByID(msg.created.ID)
		m.syncDetail()
	}
	m.journal.Emit(history.Event{
		Kind:      history.EventTaskCreated,
		Project:   msg.projectID,
		TaskID:    msg.created.ID,
		TaskTitle: msg.created.Title,
	})
	return m, m.setStatus("created "+msg.created.Title, false)
}

// renderNotesCmd kicks off the async markdown render for the selected task's
// notes. The render runs in a tea.Cmd so the UI stays responsive.
func (m *home) renderNotesCmd() tea.Cmd {
	t, ok := m.list.GetSelected()
	if !ok || t.Notes == "" {
		return nil
	}
	notes := t.Notes
	taskID := t.ID
	wordWrap := m.detail.NotesWrapWidth()

	return func() tea.Msg {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wordWrap),
		)
		if err != nil {
			return notesRenderedMsg{taskID: taskID, err: err}
		}
		rendered, err := renderer.Render(notes)
		if err != nil {
			return notesRenderedMsg{taskID: taskID, err: err}
		}
		return notesRenderedMsg{taskID: taskID, rendered: rendered}
	}
}
