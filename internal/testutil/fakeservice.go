// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"taskscribe/internal/service"
)

var _ service.Service = (*FakeService)(nil)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64
	now    func() time.Time

	// Calls counts service calls by method name.
	Calls map[string]int

	// Error injection for testing
	ListTasksErr    error
	ExtractErr      error
	CompleteTaskErr error
	ReopenTaskErr   error
	UpdateTaskErr   error
	DeleteTaskErr   error

	// ExtractFunc turns a transcript into tasks. Defaults to one Medium
	// task per sentence.
	ExtractFunc func(text string) []service.Task
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		now:    func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) },
		Calls:  make(map[string]int),
	}
}

// AddTask stores t as is. A zero ID is assigned the next free id.
func (f *FakeService) AddTask(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Get returns the stored task with id.
func (f *FakeService) Get(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[i], true
}

// Len returns the number of stored tasks.
func (f *FakeService) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// CallCount returns how often method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.Calls[method]++
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks), nil
}

// Extract implements service.Service. Blank text is rejected like the real
// service would.
func (f *FakeService) Extract(ctx context.Context, text string) error {
	f.record("Extract")
	if f.ExtractErr != nil {
		return f.ExtractErr
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text required", service.ErrRejected)
	}
	extract := f.ExtractFunc
	if extract == nil {
		extract = sentences
	}
	for _, t := range extract(text) {
		f.mu.Lock()
		t.ID = 0
		if t.CreatedAt == "" {
			t.CreatedAt = f.now().Add(time.Duration(f.nextID) * time.Minute).Format(time.RFC3339)
		}
		f.mu.Unlock()
		f.AddTask(t)
	}
	return nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id int64) error {
	f.record("CompleteTask")
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	return f.setCompleted(id, true)
}

// ReopenTask implements service.Service.
func (f *FakeService) ReopenTask(ctx context.Context, id int64) error {
	f.record("ReopenTask")
	if f.ReopenTaskErr != nil {
		return f.ReopenTaskErr
	}
	return f.setCompleted(id, false)
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, fields service.TaskFields) error {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Description = fields.Description
	f.tasks[i].Owner = fields.Owner
	f.tasks[i].Deadline = fields.Deadline
	f.tasks[i].Priority = fields.Priority
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

func (f *FakeService) setCompleted(id int64, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Completed = completed
	return nil
}

func (f *FakeService) indexLocked(id int64) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// sentences is the default extractor: one Medium task per non-blank sentence.
func sentences(text string) []service.Task {
	var out []service.Task
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, service.Task{Description: s, Priority: service.PriorityMedium})
	}
	return out
}
