// Package ui renders the interactive kanban board.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kanbohq/kanbo/internal/assist"
	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/settings"
)

// workflowDoneMsg reports a finished AI workflow.
type workflowDoneMsg struct {
	id   string
	kind assist.Kind
	err  error
}

// themeSavedMsg reports the result of persisting a theme toggle.
type themeSavedMsg struct {
	err error
}

// Model is the bubbletea model for the board.
type Model struct {
	store  *board.Store
	flows  *assist.Workflows
	prefs  settings.Store
	theme  string
	styles Styles

	focusCol int
	focusRow int

	adding bool
	input  textinput.Model
	detail bool

	spin     spinner.Model
	spinning bool

	status string
	width  int
	height int
}

// New creates the board model with the persisted theme applied.
func New(store *board.Store, flows *assist.Workflows, prefs settings.Store, theme string) Model {
	input := textinput.New()
	input.Placeholder = "Task description"
	input.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	return Model{
		store:  store,
		flows:  flows,
		prefs:  prefs,
		theme:  theme,
		styles: NewStyles(theme),
		input:  input,
		spin:   spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case workflowDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		if !m.anyLoading() {
			m.spinning = false
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.status = "theme not saved: " + msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Blank input is dropped by the store.
		m.store.Add(m.input.Value())
		m.adding = false
		m.input.Reset()
		m.focusCol = 0
		return m, nil
	case "esc":
		m.adding = false
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "a":
		m.adding = true
		m.detail = false
		m.input.Focus()
		return m, textinput.Blink

	case "left", "h":
		if m.focusCol > 0 {
			m.focusCol--
			m.clampRow()
		}
		return m, nil
	case "right", "l":
		if m.focusCol < len(board.Statuses)-1 {
			m.focusCol++
			m.clampRow()
		}
		return m, nil
	case "up", "k":
		if m.focusRow > 0 {
			m.focusRow--
		}
		return m, nil
	case "down", "j":
		m.focusRow++
		m.clampRow()
		return m, nil

	case "H", "shift+left":
		return m.moveSelected(-1)
	case "L", "shift+right":
		return m.moveSelected(1)

	case " ":
		if task, ok := m.selected(); ok {
			m.store.ToggleComplete(task.ID)
			m.clampRow()
		}
		return m, nil

	case "d":
		if task, ok := m.selected(); ok {
			m.store.Delete(task.ID)
			m.clampRow()
		}
		return m, nil

	case "s":
		if task, ok := m.selected(); ok {
			m.store.ToggleSubTasks(task.ID)
		}
		return m, nil

	case "g":
		return m.startWorkflow(assist.KindAnalysis)
	case "b":
		return m.startWorkflow(assist.KindBreakdown)

	case "t":
		if m.theme == settings.ThemeDark {
			m.theme = settings.ThemeLight
		} else {
			m.theme = settings.ThemeDark
		}
		m.styles = NewStyles(m.theme)
		return m, m.saveTheme()

	case "enter":
		if _, ok := m.selected(); ok {
			m.detail = !m.detail
		}
		return m, nil
	case "esc":
		m.detail = false
		return m, nil
	}
	return m, nil
}

// moveSelected moves the focused task one column over and follows it.
func (m Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	target := m.focusCol + delta
	if target < 0 || target >= len(board.Statuses) {
		return m, nil
	}
	m.store.Move(task.ID, board.Statuses[target])
	m.focusCol = target
	column := m.store.Column(board.Statuses[target])
	for i, t := range column {
		if t.ID == task.ID {
			m.focusRow = i
			break
		}
	}
	return m, nil
}

// startWorkflow launches an AI workflow for the focused task unless the
// same workflow is already running for it.
func (m Model) startWorkflow(kind assist.Kind) (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.flows.Loading(task.ID, kind) {
		// Mirrors the disabled button: repeat presses are ignored.
		return m, nil
	}
	m.detail = false
	cmds := []tea.Cmd{m.runWorkflow(kind, task.ID)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) runWorkflow(kind assist.Kind, id string) tea.Cmd {
	flows := m.flows
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if kind == assist.KindAnalysis {
			err = flows.Analyze(ctx, id)
		} else {
			err = flows.Breakdown(ctx, id)
		}
		return workflowDoneMsg{id: id, kind: kind, err: err}
	}
}

func (m Model) saveTheme() tea.Cmd {
	prefs := m.prefs
	theme := m.theme
	return func() tea.Msg {
		return themeSavedMsg{err: prefs.Set(context.Background(), settings.KeyTheme, theme)}
	}
}

// selected returns the focused task, if any.
func (m Model) selected() (board.Task, bool) {
	column := m.store.Column(board.Statuses[m.focusCol])
	if m.focusRow < 0 || m.focusRow >= len(column) {
		return board.Task{}, false
	}
	return column[m.focusRow], true
}

func (m *Model) clampRow() {
	n := len(m.store.Column(board.Statuses[m.focusCol]))
	if m.focusRow >= n {
		m.focusRow = n - 1
	}
	if m.focusRow < 0 {
		m.focusRow = 0
	}
}

func (m Model) anyLoading() bool {
	for _, task := range m.store.Tasks() {
		if m.flows.Loading(task.ID, assist.KindAnalysis) || m.flows.Loading(task.ID, assist.KindBreakdown) {
			return true
		}
	}
	return false
}

// Theme returns the current theme name.
func (m Model) Theme() string {
	return m.theme
}
