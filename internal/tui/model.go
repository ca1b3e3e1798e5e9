// Package tui renders a board.Board as an interactive terminal board.
//
// Every remote call runs as a tea.Cmd off the update loop; its result comes
// back as a message. The board itself orders concurrent reloads.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskscribe/internal/board"
	"taskscribe/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeExtract
	modeEdit
	modeConfirmDelete
)

// loadedMsg reports the result of a plain reload.
type loadedMsg struct {
	err error
}

// commandMsg reports the result of a mutating command and its reload.
type commandMsg struct {
	action string
	err    error
}

// Model is the bubbletea model for the board.
type Model struct {
	ctx   context.Context
	board *board.Board

	mode       mode
	cursor     int
	editField  int
	pendingDel int64
	returnMode mode
	pending    int

	transcript textarea.Model
	field      textinput.Model

	status  string
	isError bool
	width   int
}

// New creates a board model. Nothing is loaded until Init runs.
func New(ctx context.Context, b *board.Board) Model {
	ta := textarea.New()
	ta.Placeholder = "e.g. Rohit needs to fix login bug before 12 Feb..."
	ta.CharLimit = 0
	ta.SetHeight(5)
	ta.SetWidth(72)

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	return Model{
		ctx:        ctx,
		board:      b,
		transcript: ta,
		field:      ti,
		status:     "Loading tasks...",
	}
}

// Run starts the board program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, b *board.Board, out io.Writer) error {
	p := tea.NewProgram(New(ctx, b),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, b := m.ctx, m.board
	return func() tea.Msg {
		return loadedMsg{err: b.Load(ctx)}
	}
}

// run issues a mutating command off the update loop.
func (m *Model) run(action string, fn func(context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return commandMsg{action: action, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.transcript.SetWidth(msg.Width - 4)
			m.field.Width = msg.Width - 20
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else if m.status == "Loading tasks..." {
			m.setStatus("")
		}
		m.clampCursor()
		m.syncEdit()
		return m, nil

	case commandMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.setError(fmt.Errorf("%s: %w", msg.action, msg.err))
		} else {
			m.setStatus(msg.action + ": ok")
		}
		m.clampCursor()
		m.syncEdit()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeExtract:
			return m.updateExtract(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.board.View()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(view)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.setStatus("Reloading...")
		return m, m.load()
	case "s":
		f := m.board.Filter()
		f.Status = nextStatus(f.Status)
		m.board.SetFilter(f)
		m.clampCursor()
	case "p":
		f := m.board.Filter()
		f.Priority = nextPriority(f.Priority)
		m.board.SetFilter(f)
		m.clampCursor()
	case "n", "a":
		m.mode = modeExtract
		m.transcript.SetValue(m.board.Input())
		m.transcript.Focus()
		m.setStatus("Paste a transcript. ctrl+s to extract, esc to cancel.")
	case " ", "x":
		return m, m.toggle(view)
	case "e":
		t, ok := selected(view, m.cursor)
		if !ok {
			return m, nil
		}
		if err := m.board.StartEdit(t.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.mode = modeEdit
		m.editField = 0
		m.loadField()
		m.field.Focus()
		m.setStatus(fmt.Sprintf("Editing #%d. tab to move, enter to advance, ctrl+s to save, esc to cancel.", t.ID))
	case "d":
		m.confirmDelete(view)
	}
	return m, nil
}

// toggle completes or reopens the task under the cursor.
func (m *Model) toggle(view []service.Task) tea.Cmd {
	t, ok := selected(view, m.cursor)
	if !ok {
		return nil
	}
	if t.Completed {
		return m.run(fmt.Sprintf("reopen #%d", t.ID), func(ctx context.Context) error {
			return m.board.Reopen(ctx, t.ID)
		})
	}
	return m.run(fmt.Sprintf("complete #%d", t.ID), func(ctx context.Context) error {
		return m.board.Complete(ctx, t.ID)
	})
}

// confirmDelete asks before deleting the task under the cursor. The
// current mode is restored once the prompt is answered.
func (m *Model) confirmDelete(view []service.Task) {
	t, ok := selected(view, m.cursor)
	if !ok {
		return
	}
	m.returnMode = m.mode
	m.mode = modeConfirmDelete
	m.pendingDel = t.ID
	m.setStatus(fmt.Sprintf("Delete #%d %q? y/n", t.ID, t.Description))
}

func (m Model) updateExtract(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.board.SetInput(m.transcript.Value())
		m.transcript.Blur()
		m.mode = modeList
		m.setStatus("Extraction cancelled")
		return m, nil
	case "ctrl+s":
		text := m.transcript.Value()
		if strings.TrimSpace(text) == "" {
			m.setError(board.ErrEmptyTranscript)
			return m, nil
		}
		m.board.SetInput(text)
		m.transcript.Reset()
		m.transcript.Blur()
		m.mode = modeList
		m.setStatus("Extracting...")
		return m, m.run("extract", func(ctx context.Context) error {
			return m.board.Extract(ctx, text)
		})
	}
	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDel
	m.mode = m.returnMode
	m.returnMode = modeList
	m.pendingDel = 0

	switch msg.String() {
	case "y", "Y":
		m.setStatus(fmt.Sprintf("Deleting #%d...", id))
		return m, m.run(fmt.Sprintf("delete #%d", id), func(ctx context.Context) error {
			return m.board.Remove(ctx, id)
		})
	}
	m.setStatus("Delete cancelled")
	m.syncEdit()
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.field.Blur()
		m.mode = modeList
		if err := m.board.CancelEdit(); errors.Is(err, board.ErrNoEditSession) {
			m.setStatus("Edit already closed")
			return m, nil
		}
		m.setStatus("Edit cancelled")
		return m, nil
	case "ctrl+up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "ctrl+down":
		if m.cursor < len(m.board.View())-1 {
			m.cursor++
		}
		return m, nil
	case "ctrl+x":
		return m, m.toggle(m.board.View())
	case "ctrl+d":
		m.confirmDelete(m.board.View())
		return m, nil
	case "tab", "down":
		if !m.storeField() {
			return m, nil
		}
		m.editField = (m.editField + 1) % len(board.EditFields)
		m.loadField()
		return m, nil
	case "shift+tab", "up":
		if !m.storeField() {
			return m, nil
		}
		m.editField = (m.editField + len(board.EditFields) - 1) % len(board.EditFields)
		m.loadField()
		return m, nil
	case "enter":
		if !m.storeField() {
			return m, nil
		}
		if m.editField < len(board.EditFields)-1 {
			m.editField++
			m.loadField()
			return m, nil
		}
		return m.save()
	case "ctrl+s":
		if !m.storeField() {
			return m, nil
		}
		return m.save()
	}
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	s, ok := m.board.Editing()
	m.field.Blur()
	m.mode = modeList
	if !ok {
		m.setError(board.ErrNoEditSession)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Saving #%d...", s.TargetID))
	return m, m.run(fmt.Sprintf("save #%d", s.TargetID), m.board.SaveEdit)
}

// storeField copies the input into the draft. It reports false and leaves
// the field focused if the value is rejected.
func (m *Model) storeField() bool {
	name := board.EditFields[m.editField]
	if err := m.board.SetDraftField(name, m.field.Value()); err != nil {
		m.setError(err)
		return false
	}
	return true
}

func (m *Model) loadField() {
	s, _ := m.board.Editing()
	name := board.EditFields[m.editField]
	m.field.Placeholder = name
	m.field.SetValue(draftValue(s.Draft, name))
	m.field.CursorEnd()
}

// syncEdit leaves edit mode when the board no longer has a session, which
// happens when the task under edit is deleted.
func (m *Model) syncEdit() {
	if _, ok := m.board.Editing(); ok {
		return
	}
	switch {
	case m.mode == modeEdit:
		m.field.Blur()
		m.mode = modeList
		if !m.isError {
			m.setStatus("Edit cancelled: task deleted")
		}
	case m.mode == modeConfirmDelete && m.returnMode == modeEdit:
		m.field.Blur()
		m.returnMode = modeList
	}
}

func (m *Model) clampCursor() {
	n := len(m.board.View())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.isError = s, false
}

func (m *Model) setError(err error) {
	if errors.Is(err, board.ErrClosed) {
		return
	}
	var reloadErr *board.ReloadError
	if errors.As(err, &reloadErr) {
		m.status, m.isError = "saved, but reload failed: "+reloadErr.Err.Error()+" (press r)", true
		return
	}
	if errors.Is(err, service.ErrUnauthorized) {
		m.status, m.isError = err.Error()+" (run: taskscribe login)", true
		return
	}
	m.status, m.isError = err.Error(), true
}

func selected(view []service.Task, cursor int) (service.Task, bool) {
	if cursor < 0 || cursor >= len(view) {
		return service.Task{}, false
	}
	return view[cursor], true
}

func draftValue(d service.TaskFields, name string) string {
	switch name {
	case board.FieldDescription:
		return d.Description
	case board.FieldOwner:
		return d.Owner
	case board.FieldDeadline:
		return d.Deadline
	case board.FieldPriority:
		return string(d.Priority)
	}
	return ""
}

func nextStatus(s board.StatusFilter) board.StatusFilter {
	switch s {
	case board.StatusAll:
		return board.StatusOpen
	case board.StatusOpen:
		return board.StatusCompleted
	}
	return board.StatusAll
}

func nextPriority(p service.Priority) service.Priority {
	switch p {
	case board.PriorityAll:
		return service.PriorityHigh
	case service.PriorityHigh:
		return service.PriorityMedium
	case service.PriorityMedium:
		return service.PriorityLow
	}
	return board.PriorityAll
}
