package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskscribe/internal/board"
	"taskscribe/internal/service"
	"taskscribe/internal/testutil"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+up":
		return tea.KeyMsg{Type: tea.KeyCtrlUp}
	case "ctrl+down":
		return tea.KeyMsg{Type: tea.KeyCtrlDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs cmd and feeds board results back into the model. Other
// messages (cursor blinks and the like) are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case loadedMsg, commandMsg:
		next, _ := m.Update(msg)
		return next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = settle(t, next.(Model), cmd)
	}
	return m
}

func newModel(t *testing.T) (Model, *testutil.FakeService) {
	t.Helper()
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 1, Description: "fix login", Owner: "Rohit", Priority: service.PriorityHigh, CreatedAt: "2024-01-01T10:00:00Z"})
	svc.AddTask(service.Task{ID: 2, Description: "write notes", Priority: service.PriorityLow, Completed: true, CreatedAt: "2024-01-02T10:00:00Z"})

	m := New(context.Background(), board.New(svc, nil))
	m = settle(t, m, m.Init())
	return m, svc
}

func TestModel_InitLoads(t *testing.T) {
	m, _ := newModel(t)

	view := m.View()
	assert.Contains(t, view, "fix login")
	assert.Contains(t, view, "write notes")
	assert.Contains(t, view, "1 open, 1 completed")
	assert.False(t, m.isError)
}

func TestModel_LoadErrorKeepsBoard(t *testing.T) {
	m, svc := newModel(t)
	svc.ListTasksErr = service.ErrUnavailable

	m = press(t, m, "r")

	assert.True(t, m.isError)
	assert.Contains(t, m.View(), "fix login")
}

func TestModel_ToggleCompletesSelected(t *testing.T) {
	m, svc := newModel(t)

	// newest first: cursor 0 is task 2 (completed), cursor 1 is task 1
	m = press(t, m, "j", "x")

	stored, _ := svc.Get(1)
	assert.True(t, stored.Completed)
	assert.Equal(t, "complete #1: ok", m.status)

	m = press(t, m, "x")
	stored, _ = svc.Get(1)
	assert.False(t, stored.Completed)
}

func TestModel_StatusFilterCycles(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "s")
	assert.Equal(t, board.StatusOpen, m.board.Filter().Status)
	assert.NotContains(t, m.View(), "write notes")

	m = press(t, m, "s", "s")
	assert.Equal(t, board.StatusAll, m.board.Filter().Status)
}

func TestModel_PriorityFilterCycles(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "p")
	assert.Equal(t, service.PriorityHigh, m.board.Filter().Priority)
	assert.NotContains(t, m.View(), "write notes")
}

func TestModel_EditAndSave(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "j", "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "fix login", m.field.Value())

	m.field.SetValue("fix logout")
	m = press(t, m, "tab")
	assert.Equal(t, "Rohit", m.field.Value())
	m.field.SetValue("Priya")
	m = press(t, m, "ctrl+s")

	assert.Equal(t, modeList, m.mode)
	stored, _ := svc.Get(1)
	assert.Equal(t, "fix logout", stored.Description)
	assert.Equal(t, "Priya", stored.Owner)
	_, editing := m.board.Editing()
	assert.False(t, editing)
}

func TestModel_EditRejectsBadPriority(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "j", "e", "tab", "tab", "tab")
	assert.Equal(t, "High", m.field.Value())
	m.field.SetValue("asap")
	m = press(t, m, "enter")

	assert.Equal(t, modeEdit, m.mode)
	assert.True(t, m.isError)
	assert.Equal(t, 0, svc.CallCount("UpdateTask"))
}

func TestModel_EditCancel(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "e")
	m.field.SetValue("changed")
	m = press(t, m, "esc")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 0, svc.CallCount("UpdateTask"))
	stored, _ := svc.Get(2)
	assert.Equal(t, "write notes", stored.Description)
}

func TestModel_DeleteConfirm(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "d", "n")
	assert.Equal(t, 2, svc.Len())

	m = press(t, m, "d", "y")
	assert.Equal(t, 1, svc.Len())
	_, ok := svc.Get(2)
	assert.False(t, ok)
	assert.NotContains(t, m.View(), "write notes")
}

func TestModel_ExtractEmptyIsRejectedLocally(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "n", "ctrl+s")

	assert.Equal(t, modeExtract, m.mode)
	assert.True(t, m.isError)
	assert.Equal(t, 0, svc.CallCount("Extract"))
}

func TestModel_Extract(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "n")
	m.transcript.SetValue("Sam will ship the release. Ana must review the PR.")
	m = press(t, m, "ctrl+s")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 4, svc.Len())
	assert.Equal(t, "", m.board.Input())
	assert.True(t, strings.Contains(m.View(), "Ana must review the PR"))
}

func TestModel_ActionRowAlwaysPresent(t *testing.T) {
	m, _ := newModel(t)

	assert.Equal(t, 2, strings.Count(m.View(), "[delete]"))
	m = press(t, m, "e")
	assert.Equal(t, 2, strings.Count(m.View(), "[delete]"))
	assert.Equal(t, 2, strings.Count(m.View(), "[edit]"))
}

func TestModel_OtherTasksActionableWhileEditing(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "j", "e")
	m.field.SetValue("fix logout")
	m = press(t, m, "tab")
	m = press(t, m, "ctrl+up", "ctrl+x")

	stored, _ := svc.Get(2)
	assert.False(t, stored.Completed, "task 2 should be reopened")
	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Rohit", m.field.Value())
	s, ok := m.board.Editing()
	require.True(t, ok)
	assert.Equal(t, int64(1), s.TargetID)
	assert.Equal(t, "fix logout", s.Draft.Description)

	m = press(t, m, "ctrl+s")
	stored, _ = svc.Get(1)
	assert.Equal(t, "fix logout", stored.Description)
}

func TestModel_DeleteOtherTaskWhileEditing(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "j", "e", "ctrl+up", "ctrl+d")
	require.Equal(t, modeConfirmDelete, m.mode)
	m = press(t, m, "y")

	_, ok := svc.Get(2)
	assert.False(t, ok)
	assert.Equal(t, modeEdit, m.mode)
	s, editing := m.board.Editing()
	require.True(t, editing)
	assert.Equal(t, int64(1), s.TargetID)
}

func TestModel_DeletingEditedTaskLeavesEditMode(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, "j", "d")
	next, deleteCmd := m.Update(key("y"))
	m = next.(Model)
	require.NotNil(t, deleteCmd)

	// the edit starts before the delete result arrives
	m = press(t, m, "e")
	require.Equal(t, modeEdit, m.mode)

	m = settle(t, m, deleteCmd)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Edit cancelled: task deleted", m.status)
	assert.False(t, m.isError)
	_, ok := svc.Get(1)
	assert.False(t, ok)

	m = press(t, m, "tab")
	assert.False(t, m.isError)
}

func TestModel_DeletingEditedTaskFromEditMode(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "j", "e", "ctrl+d", "y")

	assert.Equal(t, modeList, m.mode)
	_, editing := m.board.Editing()
	assert.False(t, editing)
}

func TestModel_EscAfterSessionClosed(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "e")
	require.NoError(t, m.board.CancelEdit())
	m = press(t, m, "esc")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Edit already closed", m.status)
	assert.False(t, m.isError)
}
