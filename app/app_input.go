package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"taskdeck/keys"
	"taskdeck/task"
	"taskdeck/ui"
)

// handleMenuHighlighting underlines the pressed key in the menu rail. The
// keypress is intercepted, re-sent, and handled for real on the next pass.
func (m *home) handleMenuHighlighting(msg tea.KeyMsg) (cmd tea.Cmd, returnEarly bool) {
	if m.keySent {
		m.keySent = false
		return nil, false
	}
	if m.state != stateNormal {
		return nil, false
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return nil, false
	}

	m.keySent = true
	return tea.Batch(
		func() tea.Msg { return msg },
		m.keydownCallback(name)), true
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, returnEarly := m.handleMenuHighlighting(msg); returnEarly {
		return m, cmd
	}

	switch m.state {
	case stateEditing:
		if m.taskForm != nil && m.taskForm.HandleKeyPress(msg) {
			if m.taskForm.IsSubmitted() {
				return m, m.submitEditor()
			}
			m.taskForm = nil
			m.editingTask = nil
			m.state = m.idleState()
			m.syncMenu()
		}
		return m, nil

	case statePostpone:
		if m.textInputOverlay != nil && m.textInputOverlay.HandleKeyPress(msg) {
			if m.textInputOverlay.Submitted {
				// Validate before closing so a typo keeps the input open.
				d, err := task.ParsePostpone(m.textInputOverlay.GetValue())
				if err != nil {
					m.textInputOverlay.SetError(err.Error())
					return m, nil
				}
				return m, m.submitPostpone(d)
			}
			m.textInputOverlay = nil
			m.postponeTasks = nil
			m.state = m.idleState()
			m.syncMenu()
		}
		return m, nil

	case stateConfirm:
		if m.confirmationOverlay != nil && m.confirmationOverlay.HandleKeyPress(msg) {
			confirmed := m.confirmationOverlay.Confirmed
			m.confirmationOverlay = nil
			m.state = m.idleState()
			m.syncMenu()
			if confirmed {
				action := m.pendingConfirmAction
				m.pendingConfirmAction = nil
				return m, action
			}
			m.pendingConfirmAction = nil
		}
		return m, nil

	case stateHelp:
		if m.textOverlay != nil && m.textOverlay.HandleKeyPress(msg) {
			m.textOverlay = nil
			m.state = m.idleState()
			m.appState.SetHelpScreenSeen()
			m.syncMenu()
		}
		return m, nil

	case stateVisual:
		return m.handleVisualKey(msg)
	}

	return m.handleNormalKey(msg)
}

func (m *home) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.handleQuit()
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyQuit:
		return m.handleQuit()

	case keys.KeyHelp:
		m.openHelp()
		return m, nil

	case keys.KeyTab:
		m.cycleFocus()
		return m, nil

	case keys.KeyUp:
		return m, m.moveSelection(-1)

	case keys.KeyDown:
		return m, m.moveSelection(1)

	case keys.KeyFirst:
		if m.focusedPanel == focusList {
			m.list.First()
			m.syncDetail()
			return m, m.renderNotesCmd()
		}
		return m, nil

	case keys.KeyLast:
		if m.focusedPanel == focusList {
			m.list.Last()
			m.syncDetail()
			return m, m.renderNotesCmd()
		}
		return m, nil

	case keys.KeyFilterAll, keys.KeyFilterToday, keys.KeyFilterWeek:
		m.list.SetFilter(filterForKey(name))
		m.syncDetail()
		m.syncMenu()
		return m, m.renderNotesCmd()

	case keys.KeyNew:
		m.openEditor(nil)
		return m, nil

	case keys.KeyEdit:
		if m.focusedPanel == focusSidebar {
			return m.selectSidebarProject()
		}
		if t, ok := m.list.GetSelected(); ok {
			if m.cache.MutationPending(t.ID) {
				return m, m.setStatus("previous change still syncing", false)
			}
			m.openEditor(&t)
		}
		return m, nil

	case keys.KeyToggle:
		return m, m.toggleSelected()

	case keys.KeyDelete:
		return m, m.deleteSelected()

	case keys.KeyPostpone:
		m.startPostpone()
		return m, nil

	case keys.KeyRefresh:
		return m, m.refreshActive()

	case keys.KeyYank:
		return m, m.yankSelected()

	case keys.KeyVisual:
		m.enterVisual()
		return m, nil
	}

	return m, nil
}

// handleVisualKey drives visual select: movement extends the marked range
// from the anchor, task operations apply to every marked row.
func (m *home) handleVisualKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.handleQuit()
	}
	if msg.Type == tea.KeyEsc {
		m.exitVisual()
		return m, nil
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyVisual, keys.KeyQuit:
		m.exitVisual()
		return m, nil

	case keys.KeyUp:
		m.list.Up()
	case keys.KeyDown:
		m.list.Down()
	case keys.KeyFirst:
		m.list.First()
	case keys.KeyLast:
		m.list.Last()

	case keys.KeyToggle:
		return m, m.toggleVisual()
	case keys.KeyDelete:
		return m, m.deleteVisual()
	case keys.KeyPostpone:
		m.startPostponeVisual()
		return m, nil

	default:
		return m, nil
	}

	m.list.SetMarked(markedIDs(m.visualTasks()))
	m.syncDetail()
	return m, m.renderNotesCmd()
}

// moveSelection routes j/k to whichever pane has focus.
func (m *home) moveSelection(delta int) tea.Cmd {
	switch m.focusedPanel {
	case focusSidebar:
		if delta < 0 {
			m.sidebar.Up()
		} else {
			m.sidebar.Down()
		}
		return nil
	case focusDetail:
		if delta < 0 {
			m.detail.ScrollUp()
		} else {
			m.detail.ScrollDown()
		}
		return nil
	default:
		if delta < 0 {
			m.list.Up()
		} else {
			m.list.Down()
		}
		m.syncDetail()
		m.syncMenu()
		return m.renderNotesCmd()
	}
}

// selectSidebarProject activates the highlighted project and returns focus to
// the task list.
func (m *home) selectSidebarProject() (tea.Model, tea.Cmd) {
	p, ok := m.sidebar.GetSelected()
	if !ok {
		return m, nil
	}
	m.setFocus(focusList)
	return m, m.setActiveProject(p)
}

// handleMouse processes mouse events for click and scroll interactions.
func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateNormal && m.state != stateProcessing {
		return m, nil
	}

	// Scroll wheel scrolls whichever pane is under the pointer.
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		switch {
		case zone.Get(ui.ZoneDetailPane).InBounds(msg):
			if delta < 0 {
				m.detail.ScrollUp()
			} else {
				m.detail.ScrollDown()
			}
			return m, nil
		case zone.Get(ui.ZoneSidebar).InBounds(msg):
			if delta < 0 {
				m.sidebar.Up()
			} else {
				m.sidebar.Down()
			}
			return m, nil
		case zone.Get(ui.ZoneTaskList).InBounds(msg):
			if delta < 0 {
				m.list.Up()
			} else {
				m.list.Down()
			}
			m.syncDetail()
			return m, m.renderNotesCmd()
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	// Filter tabs.
	for i, id := range ui.FilterZoneIDs {
		if zone.Get(id).InBounds(msg) {
			m.setFocus(focusList)
			m.list.SetFilter(ui.Filter(i))
			m.syncDetail()
			m.syncMenu()
			return m, m.renderNotesCmd()
		}
	}

	// Sidebar rows select and activate a project.
	if zone.Get(ui.ZoneSidebar).InBounds(msg) {
		m.setFocus(focusSidebar)
		for row := 0; row < len(m.projects); row++ {
			if zone.Get(ui.SidebarRowZoneID(row)).InBounds(msg) {
				m.sidebar.ClickItem(row)
				return m.selectSidebarProject()
			}
		}
		return m, nil
	}

	// Task rows.
	if zone.Get(ui.ZoneTaskList).InBounds(msg) {
		m.setFocus(focusList)
		for row := 0; row < len(m.list.Visible()); row++ {
			if zone.Get(ui.TaskRowZoneID(row)).InBounds(msg) {
				m.list.ClickItem(row)
				m.syncDetail()
				m.syncMenu()
				return m, m.renderNotesCmd()
			}
		}
		return m, nil
	}

	if zone.Get(ui.ZoneDetailPane).InBounds(msg) {
		m.setFocus(focusDetail)
	}
	return m, nil
}

func filterForKey(name keys.KeyName) ui.Filter {
	switch name {
	case keys.KeyFilterToday:
		return ui.FilterToday
	case keys.KeyFilterWeek:
		return ui.FilterWeek
	default:
		return ui.FilterAll
	}
}
