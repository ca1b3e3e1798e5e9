// Package board implements the client-side task board: a cached task
// collection reconciled against the task service, a derived filtered and
// sorted view, and a single edit session.
//
// Every mutating command is followed by a full reload. The cache is never
// patched optimistically.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"taskscribe/internal/service"
)

// Local precondition errors.
var (
	ErrNoEditSession   = errors.New("no task is being edited")
	ErrTaskNotFound    = errors.New("task not found")
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrInvalidFields   = errors.New("invalid task fields")
	ErrClosed          = errors.New("board closed")
)

// ReloadError is returned by a mutating command whose remote call succeeded
// but whose reconciling reload failed. The change is real on the service;
// the cached view is stale until the next successful Load.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "reload failed: " + e.Err.Error() }
func (e *ReloadError) Unwrap() error { return e.Err }

// Board is the task view-model. It is safe for concurrent use; the lock is
// never held across a service call.
type Board struct {
	svc    service.Service
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []service.Task
	filter Filter
	edit   *EditSession
	input  string
	loaded bool
	closed bool

	// Reloads are numbered when issued. A result is applied only if no
	// later-issued reload has been applied already.
	issued  uint64
	applied uint64
}

// New creates an empty board backed by svc. A nil logger discards output.
func New(svc service.Service, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		svc:    svc,
		logger: logger,
		filter: DefaultFilter(),
	}
}

// Load fetches every task and replaces the cache. On error the cache is
// left as it was.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.issued++
	seq := b.issued
	b.mu.Unlock()

	tasks, err := b.svc.ListTasks(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.logger.Debug("dropping load result after close", "seq", seq)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if seq < b.applied {
		b.logger.Debug("dropping stale load", "seq", seq, "applied", b.applied)
		return nil
	}
	b.tasks = slices.Clone(tasks)
	b.applied = seq
	b.loaded = true
	b.logger.Debug("tasks loaded", "seq", seq, "count", len(tasks))
	return nil
}

// invalidateAndReload is the reconciling reload run after every mutation.
func (b *Board) invalidateAndReload(ctx context.Context) error {
	if err := b.Load(ctx); err != nil {
		if errors.Is(err, ErrClosed) {
			return nil
		}
		return &ReloadError{Err: err}
	}
	return nil
}

// Extract submits text for extraction and reloads. Blank text is rejected
// locally with ErrEmptyTranscript and never reaches the service. On success
// the input buffer is cleared.
func (b *Board) Extract(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyTranscript
	}
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.svc.Extract(ctx, text); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	b.mu.Lock()
	b.input = ""
	b.mu.Unlock()
	return b.invalidateAndReload(ctx)
}

// Complete marks task id completed and reloads.
func (b *Board) Complete(ctx context.Context, id int64) error {
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.svc.CompleteTask(ctx, id); err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}
	return b.invalidateAndReload(ctx)
}

// Reopen marks task id open again and reloads.
func (b *Board) Reopen(ctx context.Context, id int64) error {
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.svc.ReopenTask(ctx, id); err != nil {
		return fmt.Errorf("reopen task %d: %w", id, err)
	}
	return b.invalidateAndReload(ctx)
}

// Update replaces the editable fields of task id and reloads. On success
// any edit session on id is closed; on failure it is left alone.
func (b *Board) Update(ctx context.Context, id int64, fields service.TaskFields) error {
	if err := fields.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.svc.UpdateTask(ctx, id, fields); err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	b.mu.Lock()
	b.clearEditLocked(id)
	b.mu.Unlock()
	return b.invalidateAndReload(ctx)
}

// Remove deletes task id and reloads. An edit session on id is cancelled.
func (b *Board) Remove(ctx context.Context, id int64) error {
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.svc.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	b.mu.Lock()
	b.clearEditLocked(id)
	b.mu.Unlock()
	return b.invalidateAndReload(ctx)
}

// Close discards the collection. Results of calls still in flight are
// dropped, and later commands return ErrClosed.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.tasks = nil
	b.edit = nil
}

// View returns the derived view of the current cache and filter.
func (b *Board) View() []service.Task {
	b.mu.Lock()
	tasks, f := b.tasks, b.filter
	b.mu.Unlock()
	return DeriveView(tasks, f)
}

// Tasks returns a copy of the cached collection in service order.
func (b *Board) Tasks() []service.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

// Task looks up a cached task by id.
func (b *Board) Task(id int64) (service.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

// Loaded reports whether at least one load has been applied.
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Counts returns the number of open and completed tasks in the cache,
// ignoring the filter.
func (b *Board) Counts() (open, completed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.tasks {
		if t.Completed {
			completed++
		} else {
			open++
		}
	}
	return open, completed
}

// Filter returns the active filter.
func (b *Board) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// SetFilter replaces the active filter. Empty fields mean all.
func (b *Board) SetFilter(f Filter) {
	if f.Status == "" {
		f.Status = StatusAll
	}
	if f.Priority == "" {
		f.Priority = PriorityAll
	}
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()
}

// Input returns the transcript input buffer.
func (b *Board) Input() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input
}

// SetInput replaces the transcript input buffer.
func (b *Board) SetInput(s string) {
	b.mu.Lock()
	b.input = s
	b.mu.Unlock()
}

func (b *Board) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Board) findLocked(id int64) (service.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}
