package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"taskscribe/internal/service"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusOpen      StatusFilter = "open"
	StatusCompleted StatusFilter = "completed"
)

// PriorityAll disables priority filtering.
const PriorityAll service.Priority = "all"

// Filter is the UI-only filter state. The zero value shows everything.
type Filter struct {
	Status   StatusFilter     `json:"status"`
	Priority service.Priority `json:"priority"`
}

// DefaultFilter shows every task.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Priority: PriorityAll}
}

// ParseStatusFilter parses all, open or completed (case-insensitive).
// An empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "open":
		return StatusOpen, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status filter: %s", s)
}

// ParsePriorityFilter parses all or a priority name (case-insensitive).
// An empty string means all.
func ParsePriorityFilter(s string) (service.Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(PriorityAll)) {
		return PriorityAll, nil
	}
	p, err := service.ParsePriority(s)
	if err != nil {
		return "", fmt.Errorf("invalid priority filter: %s", s)
	}
	return p, nil
}

// Match reports whether t passes both the status and priority predicates.
func (f Filter) Match(t service.Task) bool {
	switch f.Status {
	case StatusOpen:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if f.Priority != "" && f.Priority != PriorityAll && t.Priority != f.Priority {
		return false
	}
	return true
}

// DeriveView returns the tasks passing f, newest first.
// Tasks without a valid created_at sort after every dated task; ties on
// timestamp (or two undated tasks) fall back to id, descending.
// tasks is not modified.
func DeriveView(tasks []service.Task, f Filter) []service.Task {
	type keyed struct {
		task  service.Task
		at    time.Time
		valid bool
	}

	items := make([]keyed, 0, len(tasks))
	for _, t := range tasks {
		if !f.Match(t) {
			continue
		}
		k := keyed{task: t}
		if at, ok := ParseTimestamp(t.CreatedAt); ok {
			k.at, k.valid = at, true
		}
		items = append(items, k)
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.valid && !b.valid:
			return -1
		case !a.valid && b.valid:
			return 1
		case a.valid && b.valid && !a.at.Equal(b.at):
			return b.at.Compare(a.at)
		}
		switch {
		case a.task.ID > b.task.ID:
			return -1
		case a.task.ID < b.task.ID:
			return 1
		}
		return 0
	})

	view := make([]service.Task, len(items))
	for i, k := range items {
		view[i] = k.task
	}
	return view
}
