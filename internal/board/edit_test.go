package board_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskscribe/internal/board"
	"taskscribe/internal/service"
)

func TestEdit_StartSeedsDraftFromCache(t *testing.T) {
	b, _ := newBoard(t, service.Task{ID: 1, Description: "fix login", Owner: "Rohit", Deadline: "12 Feb", Priority: service.PriorityHigh})

	require.NoError(t, b.StartEdit(1))

	s, ok := b.Editing()
	require.True(t, ok)
	assert.Equal(t, int64(1), s.TargetID)
	assert.Equal(t, service.TaskFields{Description: "fix login", Owner: "Rohit", Deadline: "12 Feb", Priority: service.PriorityHigh}, s.Draft)
}

func TestEdit_StartUnknownTask(t *testing.T) {
	b, _ := newBoard(t)

	assert.ErrorIs(t, b.StartEdit(42), board.ErrTaskNotFound)
	_, ok := b.Editing()
	assert.False(t, ok)
}

func TestEdit_DraftChangesDoNotTouchCache(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))

	require.NoError(t, b.SetDraftField(board.FieldDescription, "fix logout"))
	require.NoError(t, b.SetDraftField(board.FieldOwner, "  Priya "))
	require.NoError(t, b.SetDraftField(board.FieldPriority, "low"))

	cached, _ := b.Task(1)
	assert.Equal(t, "fix login", cached.Description)
	s, _ := b.Editing()
	assert.Equal(t, "fix logout", s.Draft.Description)
	assert.Equal(t, "Priya", s.Draft.Owner)
	assert.Equal(t, service.PriorityLow, s.Draft.Priority)
}

func TestEdit_InvalidPriorityRejected(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))

	assert.ErrorIs(t, b.SetDraftField(board.FieldPriority, "asap"), board.ErrInvalidFields)
	s, _ := b.Editing()
	assert.Equal(t, service.PriorityHigh, s.Draft.Priority)
}

func TestEdit_UnknownFieldRejected(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))
	before, _ := b.Editing()

	err := b.SetDraftField("assignee", "Priya")

	assert.ErrorIs(t, err, board.ErrInvalidFields)
	assert.EqualError(t, err, `invalid task fields: unknown field "assignee"`)
	after, _ := b.Editing()
	assert.Equal(t, before, after)
}

func TestEdit_DraftRequiresSession(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)

	assert.ErrorIs(t, b.SetDraftField(board.FieldOwner, "x"), board.ErrNoEditSession)
	assert.ErrorIs(t, b.SaveEdit(context.Background()), board.ErrNoEditSession)
	assert.ErrorIs(t, b.CancelEdit(), board.ErrNoEditSession)
}

func TestEdit_SecondStartDiscardsFirstDraft(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(2))
	require.NoError(t, b.SetDraftField(board.FieldDescription, "unsaved"))

	require.NoError(t, b.StartEdit(1))

	s, _ := b.Editing()
	assert.Equal(t, int64(1), s.TargetID)
	assert.Equal(t, "fix login", s.Draft.Description)

	cached, _ := b.Task(2)
	assert.Equal(t, "write notes", cached.Description)
	assert.Equal(t, 0, svc.CallCount("UpdateTask"))
}

func TestEdit_SaveUpdatesAndCloses(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))
	require.NoError(t, b.SetDraftField(board.FieldDeadline, "Friday"))

	require.NoError(t, b.SaveEdit(context.Background()))

	_, editing := b.Editing()
	assert.False(t, editing)
	stored, _ := svc.Get(1)
	assert.Equal(t, "Friday", stored.Deadline)
	cached, _ := b.Task(1)
	assert.Equal(t, "Friday", cached.Deadline)
}

func TestEdit_SaveFailureStillCloses(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	svc.UpdateTaskErr = service.ErrRejected
	require.NoError(t, b.StartEdit(1))

	err := b.SaveEdit(context.Background())

	require.ErrorIs(t, err, service.ErrRejected)
	_, editing := b.Editing()
	assert.False(t, editing)
}

func TestEdit_CancelMakesNoCall(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))
	require.NoError(t, b.SetDraftField(board.FieldOwner, "Sam"))

	require.NoError(t, b.CancelEdit())

	_, editing := b.Editing()
	assert.False(t, editing)
	assert.Equal(t, 0, svc.CallCount("UpdateTask"))
	cached, _ := b.Task(1)
	assert.Equal(t, "", cached.Owner)
}

func TestEdit_OtherTasksStayActionable(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))

	require.NoError(t, b.Reopen(context.Background(), 2))

	s, editing := b.Editing()
	require.True(t, editing)
	assert.Equal(t, int64(1), s.TargetID)
	cached, _ := b.Task(2)
	assert.False(t, cached.Completed)
}

func TestEdit_UpdateFailureKeepsSession(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	svc.UpdateTaskErr = service.ErrUnavailable
	require.NoError(t, b.StartEdit(1))

	err := b.Update(context.Background(), 1, service.TaskFields{Description: "x", Priority: service.PriorityLow})

	require.Error(t, err)
	_, editing := b.Editing()
	assert.True(t, editing)
}

func TestEdit_UpdateClearsSessionOnSameTask(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))

	require.NoError(t, b.Update(context.Background(), 1, service.TaskFields{Description: "x", Priority: service.PriorityLow}))

	_, editing := b.Editing()
	assert.False(t, editing)
}
