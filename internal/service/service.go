// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// Service defines the task service contract consumed by the board.
// The service owns the tasks; callers only ever hold cached copies.
type Service interface {
	// ListTasks returns every task. Order is unspecified.
	ListTasks(ctx context.Context) ([]Task, error)

	// Extract submits a transcript for action-item extraction.
	// No task payload is returned; callers reload separately.
	Extract(ctx context.Context, text string) error

	// CompleteTask marks a task completed. Idempotent.
	CompleteTask(ctx context.Context, id int64) error

	// ReopenTask marks a completed task open again. Idempotent.
	ReopenTask(ctx context.Context, id int64) error

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, id int64, fields TaskFields) error

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, id int64) error
}

// Error classes returned by Service implementations. Implementations wrap
// these so callers can classify with errors.Is.
var (
	// ErrUnauthorized means the credential is missing, expired or revoked.
	ErrUnauthorized = errors.New("not logged in or session expired")

	// ErrNotFound means the referenced task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRejected means the service refused the request (validation etc).
	ErrRejected = errors.New("request rejected")

	// ErrUnavailable means the service could not be reached or failed.
	ErrUnavailable = errors.New("service unavailable")
)
