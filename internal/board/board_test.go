package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskscribe/internal/board"
	"taskscribe/internal/service"
	"taskscribe/internal/testutil"
)

func newBoard(t *testing.T, tasks ...service.Task) (*board.Board, *testutil.FakeService) {
	t.Helper()
	svc := testutil.NewFakeService()
	for _, task := range tasks {
		svc.AddTask(task)
	}
	b := board.New(svc, nil)
	require.NoError(t, b.Load(context.Background()))
	return b, svc
}

func TestBoard_NewIsEmpty(t *testing.T) {
	b := board.New(testutil.NewFakeService(), nil)

	assert.Empty(t, b.Tasks())
	assert.Empty(t, b.View())
	assert.False(t, b.Loaded())
	assert.Equal(t, board.DefaultFilter(), b.Filter())
}

func TestBoard_LoadReplacesCollection(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	assert.Equal(t, []int64{2, 1}, ids(b.View()))

	require.NoError(t, svc.DeleteTask(context.Background(), 2))
	svc.AddTask(service.Task{ID: 10, Description: "new"})
	require.NoError(t, b.Load(context.Background()))

	assert.ElementsMatch(t, []int64{1, 10}, ids(b.Tasks()))
	assert.True(t, b.Loaded())
}

func TestBoard_LoadFailureKeepsCache(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	svc.ListTasksErr = service.ErrUnavailable

	err := b.Load(context.Background())

	require.ErrorIs(t, err, service.ErrUnavailable)
	assert.Equal(t, []int64{2, 1}, ids(b.View()))
}

func TestBoard_ExtractEmptyIsLocalNoop(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	b.SetInput("   ")

	for _, text := range []string{"", "  \n\t"} {
		err := b.Extract(context.Background(), text)
		assert.ErrorIs(t, err, board.ErrEmptyTranscript)
	}
	require.NoError(t, b.Load(context.Background()))

	assert.Equal(t, 0, svc.CallCount("Extract"))
	assert.Len(t, b.Tasks(), 2)
	assert.Equal(t, "   ", b.Input(), "input is kept when nothing was submitted")
}

func TestBoard_ExtractReloadsAndClearsInput(t *testing.T) {
	b, svc := newBoard(t)
	text := "Rohit needs to fix login bug before 12 Feb. Priya should update the docs."
	b.SetInput(text)

	require.NoError(t, b.Extract(context.Background(), text))

	assert.Equal(t, "", b.Input())
	assert.Len(t, b.Tasks(), 2)
	assert.Equal(t, 2, svc.CallCount("ListTasks"))
}

func TestBoard_ExtractFailureKeepsInput(t *testing.T) {
	b, svc := newBoard(t)
	svc.ExtractErr = service.ErrUnavailable
	b.SetInput("Sam will ship it.")

	err := b.Extract(context.Background(), b.Input())

	require.ErrorIs(t, err, service.ErrUnavailable)
	assert.Equal(t, "Sam will ship it.", b.Input())
	assert.Equal(t, 1, svc.CallCount("ListTasks"))
}

func TestBoard_CompleteReopenRoundTrip(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	ctx := context.Background()

	require.NoError(t, b.Complete(ctx, 1))
	task, ok := b.Task(1)
	require.True(t, ok)
	assert.True(t, task.Completed)

	require.NoError(t, b.Reopen(ctx, 1))
	require.NoError(t, b.Load(ctx))
	task, _ = b.Task(1)
	assert.False(t, task.Completed)
}

func TestBoard_CompleteIsIdempotent(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)

	require.NoError(t, b.Complete(context.Background(), 2))
	task, _ := b.Task(2)
	assert.True(t, task.Completed)
}

func TestBoard_MutationFailureSurfacesAndSkipsReload(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	svc.CompleteTaskErr = service.ErrNotFound

	err := b.Complete(context.Background(), 99)

	require.ErrorIs(t, err, service.ErrNotFound)
	var reloadErr *board.ReloadError
	assert.False(t, errors.As(err, &reloadErr))
	assert.Equal(t, 1, svc.CallCount("ListTasks"))
}

func TestBoard_ReloadFailureAfterMutation(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)
	svc.ListTasksErr = service.ErrUnavailable

	err := b.Complete(context.Background(), 1)

	var reloadErr *board.ReloadError
	require.ErrorAs(t, err, &reloadErr)
	assert.ErrorIs(t, err, service.ErrUnavailable)

	stored, _ := svc.Get(1)
	assert.True(t, stored.Completed, "mutation is real on the service")
	cached, _ := b.Task(1)
	assert.False(t, cached.Completed, "cache stays stale until the next load")
}

func TestBoard_RemoveDropsTask(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)

	require.NoError(t, b.Remove(context.Background(), 1))

	_, ok := b.Task(1)
	assert.False(t, ok)
	assert.Equal(t, []int64{2}, ids(b.View()))
}

func TestBoard_RemoveCancelsEditOnSameTask(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(1))

	require.NoError(t, b.Remove(context.Background(), 1))

	_, editing := b.Editing()
	assert.False(t, editing)
}

func TestBoard_RemoveKeepsEditOnOtherTask(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	require.NoError(t, b.StartEdit(2))

	require.NoError(t, b.Remove(context.Background(), 1))

	s, editing := b.Editing()
	require.True(t, editing)
	assert.Equal(t, int64(2), s.TargetID)
}

func TestBoard_UpdateValidatesLocally(t *testing.T) {
	b, svc := newBoard(t, scenarioTasks()...)

	err := b.Update(context.Background(), 1, service.TaskFields{Description: " ", Priority: service.PriorityLow})
	assert.ErrorIs(t, err, board.ErrInvalidFields)

	err = b.Update(context.Background(), 1, service.TaskFields{Description: "x", Priority: "Urgent"})
	assert.ErrorIs(t, err, board.ErrInvalidFields)

	assert.Equal(t, 0, svc.CallCount("UpdateTask"))
}

func TestBoard_SetFilterDrivesView(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)

	b.SetFilter(board.Filter{Status: board.StatusCompleted})
	assert.Equal(t, []int64{2}, ids(b.View()))
	assert.Equal(t, board.PriorityAll, b.Filter().Priority)

	b.SetFilter(board.Filter{Priority: service.PriorityHigh})
	assert.Equal(t, []int64{1}, ids(b.View()))
	assert.Len(t, b.Tasks(), 2, "filters never touch the collection")
}

func TestBoard_Counts(t *testing.T) {
	b, _ := newBoard(t, scenarioTasks()...)
	b.SetFilter(board.Filter{Status: board.StatusOpen})

	open, completed := b.Counts()
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, completed)
}

// scriptedService hands every ListTasks call to the test, which decides
// when and with what it returns.
type scriptedService struct {
	*testutil.FakeService
	calls chan chan []service.Task
}

func (s *scriptedService) ListTasks(ctx context.Context) ([]service.Task, error) {
	reply := make(chan []service.Task)
	s.calls <- reply
	return <-reply, nil
}

func TestBoard_StaleReloadIsDropped(t *testing.T) {
	svc := &scriptedService{FakeService: testutil.NewFakeService(), calls: make(chan chan []service.Task)}
	b := board.New(svc, nil)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- b.Load(ctx) }()
	replyA := <-svc.calls

	errB := make(chan error, 1)
	go func() { errB <- b.Load(ctx) }()
	replyB := <-svc.calls

	replyB <- []service.Task{{ID: 2, Description: "newer"}}
	require.NoError(t, <-errB)

	replyA <- []service.Task{{ID: 1, Description: "older"}}
	require.NoError(t, <-errA)

	assert.Equal(t, []int64{2}, ids(b.Tasks()))
}

func TestBoard_LateResultAfterCloseIsIgnored(t *testing.T) {
	svc := &scriptedService{FakeService: testutil.NewFakeService(), calls: make(chan chan []service.Task)}
	b := board.New(svc, nil)

	done := make(chan error, 1)
	go func() { done <- b.Load(context.Background()) }()
	reply := <-svc.calls

	b.Close()
	reply <- []service.Task{{ID: 1}}

	assert.NoError(t, <-done)
	assert.Empty(t, b.Tasks())
	assert.ErrorIs(t, b.Complete(context.Background(), 1), board.ErrClosed)
	assert.ErrorIs(t, b.Load(context.Background()), board.ErrClosed)
}
