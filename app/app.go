package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"taskdeck/config"
	"taskdeck/history"
	"taskdeck/keys"
	"taskdeck/task"
	"taskdeck/ui"
	"taskdeck/ui/overlay"
)

// statusTTL is how long a transient status banner stays visible.
const statusTTL = 3 * time.Second

// Run is the main entrypoint into the application.
func Run(ctx context.Context, service task.Service, journal history.Logger, cfg *config.Config) error {
	// Set the terminal's default background to the theme base color so every
	// ANSI reset and unstyled cell falls back to #232136 instead of black.
	restore := ui.SetTerminalBackground(string(ui.ColorBase))
	defer restore()

	zone.NewGlobal()
	p := tea.NewProgram(
		newHome(ctx, service, journal, cfg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // full mouse tracking for scroll + click
	)
	_, err := p.Run()
	return err
}

type state int

const (
	// stateNormal is keyboard navigation over the three panes.
	stateNormal state = iota
	// stateEditing is the task editor form (create or edit).
	stateEditing
	// statePostpone is the postpone-duration text input.
	statePostpone
	// stateConfirm is a y/n confirmation modal.
	stateConfirm
	// stateHelp is the help screen.
	stateHelp
	// stateProcessing means at least one mutation is awaiting its backend
	// verdict. Navigation and operations on other tasks stay live; a second
	// operation on a task that is already syncing is rejected.
	stateProcessing
	// stateVisual is multi-select: j/k extends the selection from the
	// anchor, and task operations apply to every selected row.
	stateVisual
)

// Focus slots for the panel ring.
const (
	focusSidebar = iota
	focusList
	focusDetail
)

type home struct {
	ctx context.Context

	// -- Storage and configuration --

	service   task.Service
	cache     *task.Cache
	journal   history.Logger
	appConfig *config.Config
	appState  *config.State

	// -- State --

	// state is the current discrete state of the application
	state state
	// activeProject is the project whose tasks the list shows.
	activeProject task.Project
	// projects mirrors the sidebar contents.
	projects []task.Project

	// editingTask is the task being edited in stateEditing; nil means the
	// form creates a new task.
	editingTask *task.Task
	// postponeTasks are the tasks being postponed in statePostpone. More than
	// one when the input was opened from visual select.
	postponeTasks []task.Task
	// pendingConfirmAction runs asynchronously when a confirmation is accepted.
	pendingConfirmAction tea.Cmd

	// pendingCreates counts task creations awaiting their backend result.
	// Together with the cache's pending mutations it decides when
	// stateProcessing ends.
	pendingCreates int
	// visualAnchor is the row where visual select started.
	visualAnchor int

	// Transient status banner. statusSeq invalidates stale expiry timers.
	statusText  string
	statusIsErr bool
	statusSeq   int

	// keySent is used to manage underlining menu items
	keySent bool

	// -- UI components --

	sidebar   *ui.Sidebar
	list      *ui.List
	detail    *ui.Detail
	menu      *ui.Menu
	statusBar *ui.StatusBar
	spinner   spinner.Model

	taskForm            *overlay.TaskFormOverlay
	textInputOverlay    *overlay.TextInputOverlay
	textOverlay         *overlay.TextOverlay
	confirmationOverlay *overlay.ConfirmationOverlay

	// focusedPanel tracks which pane has keyboard focus.
	focusedPanel int

	// Layout dimensions for mouse hit-testing.
	sidebarWidth  int
	listWidth     int
	detailWidth   int
	contentHeight int
	termWidth     int
	termHeight    int
}

func newHome(ctx context.Context, service task.Service, journal history.Logger, cfg *config.Config) *home {
	appState := config.LoadState()

	h := &home{
		ctx:       ctx,
		service:   service,
		cache:     task.NewCache(),
		journal:   journal,
		appConfig: cfg,
		appState:  appState,
		state:     stateNormal,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		sidebar:   ui.NewSidebar(),
		list:      ui.NewList(),
		detail:    ui.NewDetail(),
		menu:      ui.NewMenu(),
		statusBar: ui.NewStatusBar(),
	}
	h.setFocus(focusList)
	return h
}

func (m *home) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.fetchProjectsCmd(),
	}
	if !m.appState.HelpScreenSeen {
		m.openHelp()
	}
	return tea.Batch(cmds...)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil

	case projectsResultMsg:
		return m.handleProjectsResult(msg)

	case tasksResultMsg:
		return m.handleTasksResult(msg)

	case mutationResultMsg:
		return m.handleMutationResult(msg)

	case createResultMsg:
		return m.handleCreateResult(msg)

	case deleteRequestedMsg:
		return m, m.handleDeleteRequested(msg.task)

	case batchDeleteRequestedMsg:
		cmds := make([]tea.Cmd, 0, len(msg.tasks))
		for _, t := range msg.tasks {
			if cmd := m.handleDeleteRequested(t); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case notesRenderedMsg:
		if msg.err == nil {
			m.detail.SetRenderedNotes(msg.taskID, msg.rendered)
		}
		return m, nil

	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.statusText = ""
			m.statusIsErr = false
		}
		return m, nil

	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case error:
		return m, m.handleError(msg)
	}
	return m, nil
}

// updateHandleWindowSizeEvent sets the sizes of the components.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	// Three-column layout: sidebar (18%), task list (37%), detail (remaining).
	sidebarWidth := int(float32(msg.Width) * 0.18)
	if sidebarWidth < 18 {
		sidebarWidth = 18
	}
	listWidth := int(float32(msg.Width) * 0.37)
	detailWidth := msg.Width - sidebarWidth - listWidth

	// One row each for the status bar and the keybind rail.
	contentHeight := msg.Height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	m.termWidth = msg.Width
	m.termHeight = msg.Height
	m.sidebarWidth = sidebarWidth
	m.listWidth = listWidth
	m.detailWidth = detailWidth
	m.contentHeight = contentHeight

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.list.SetSize(listWidth, contentHeight)
	m.detail.SetSize(detailWidth, contentHeight)
	m.statusBar.SetSize(msg.Width)
	m.menu.SetSize(msg.Width, 1)

	if m.textOverlay != nil {
		m.textOverlay.SetWidth(int(float32(msg.Width) * 0.6))
	}
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	if id := m.sidebar.GetSelectedID(); id != "" {
		m.appState.SetLastProject(id)
	}
	return m, tea.Quit
}

func (m *home) View() string {
	m.refreshStatusBar()

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.String(),
		m.list.String(),
		m.detail.String(),
	)

	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.statusBar.String(),
		columns,
		m.menu.String(),
	)

	var result string
	switch {
	case m.state == stateEditing && m.taskForm != nil:
		result = overlay.PlaceOverlay(0, 0, m.taskForm.Render(), mainView, true, true)
	case m.state == statePostpone && m.textInputOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.textInputOverlay.Render(), mainView, true, true)
	case m.state == stateConfirm && m.confirmationOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.confirmationOverlay.Render(), mainView, true, true)
	case m.state == stateHelp && m.textOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.textOverlay.Render(), mainView, true, true)
	default:
		result = mainView
	}

	// Process bubblezone markers before rendering is complete
	// (zone markers inflate lipgloss.Width if left in place).
	result = zone.Scan(result)

	// Height-fill — OSC 11 handles the background color; this pads vertically.
	return ui.FillBackground(result, m.termWidth, m.termHeight, ui.ColorBase)
}

// -- Messages --

// projectsResultMsg delivers the project list fetch result.
type projectsResultMsg struct {
	projects []task.Project
	err      error
}

// tasksResultMsg delivers an async task fetch, tagged with the generation
// handed out by the cache when the fetch began.
type tasksResultMsg struct {
	projectID string
	gen       uint64
	tasks     []task.Task
	err       error
}

// mutationResultMsg delivers the backend's verdict on an optimistic mutation.
type mutationResultMsg struct {
	projectID string
	taskID    string
	taskTitle string
	gen       uint64
	confirmed *task.Task // nil for deletes
	kind      history.EventKind
	detail    string
	err       error
}

// createResultMsg delivers an async task creation.
type createResultMsg struct {
	projectID string
	created   task.Task
	err       error
}

// notesRenderedMsg delivers the async markdown render of a task's notes.
type notesRenderedMsg struct {
	taskID   string
	rendered string
	err      error
}

// statusExpireMsg clears the transient status banner when still current.
type statusExpireMsg struct {
	seq int
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}
		return keyupMsg{}
	}
}
