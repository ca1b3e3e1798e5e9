// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// Priority is the urgency assigned to an extracted action item.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the valid priorities in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority name (case-insensitive, trimmed).
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// Task represents a single action item as returned by the task service.
// Owner, Deadline and CreatedAt are empty when the service sends null.
type Task struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Deadline    string   `json:"deadline"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"created_at"`
}

// Fields returns the editable fields of t.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Description: t.Description,
		Owner:       t.Owner,
		Deadline:    t.Deadline,
		Priority:    t.Priority,
	}
}

// TaskFields is the set of fields replaced by an update.
type TaskFields struct {
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Deadline    string   `json:"deadline"`
	Priority    Priority `json:"priority"`
}

// Validate checks the local preconditions for an update.
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Description) == "" {
		return errors.New("description required")
	}
	if !f.Priority.Valid() {
		return fmt.Errorf("invalid priority: %q", f.Priority)
	}
	return nil
}
