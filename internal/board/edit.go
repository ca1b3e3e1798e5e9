package board

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"taskscribe/internal/service"
)

// EditSession is the single in-progress edit on a board.
type EditSession struct {
	TargetID int64              `json:"target_id"`
	Draft    service.TaskFields `json:"draft"`
}

// Editable field names accepted by SetDraftField.
const (
	FieldDescription = "description"
	FieldOwner       = "owner"
	FieldDeadline    = "deadline"
	FieldPriority    = "priority"
)

// EditFields lists the editable fields in display order.
var EditFields = []string{FieldDescription, FieldOwner, FieldDeadline, FieldPriority}

// StartEdit opens an edit session on task id, seeding the draft from the
// cached task. Any session already open is discarded along with its draft.
func (b *Board) StartEdit(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	t, ok := b.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	if b.edit != nil && b.edit.TargetID != id {
		b.logger.Debug("discarding edit session", "task", b.edit.TargetID)
	}
	b.edit = &EditSession{TargetID: id, Draft: t.Fields()}
	return nil
}

// Editing returns a copy of the open session, if any.
func (b *Board) Editing() (EditSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.edit == nil {
		return EditSession{}, false
	}
	return *b.edit, true
}

// SetDraft applies fn to the draft of the open session.
func (b *Board) SetDraft(fn func(*service.TaskFields)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.edit == nil {
		return ErrNoEditSession
	}
	fn(&b.edit.Draft)
	return nil
}

// SetDraftField sets one draft field by name. Priority values are parsed.
func (b *Board) SetDraftField(name, value string) error {
	if !slices.Contains(EditFields, name) {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFields, name)
	}
	var p service.Priority
	if name == FieldPriority {
		var err error
		if p, err = service.ParsePriority(value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFields, err)
		}
	}
	return b.SetDraft(func(d *service.TaskFields) {
		switch name {
		case FieldDescription:
			d.Description = value
		case FieldOwner:
			d.Owner = strings.TrimSpace(value)
		case FieldDeadline:
			d.Deadline = strings.TrimSpace(value)
		case FieldPriority:
			d.Priority = p
		}
	})
}

// SaveEdit submits the draft through Update. The session is closed whether
// or not the update succeeds; the error is returned to the caller.
func (b *Board) SaveEdit(ctx context.Context) error {
	b.mu.Lock()
	if b.edit == nil {
		b.mu.Unlock()
		return ErrNoEditSession
	}
	s := *b.edit
	b.edit = nil
	b.mu.Unlock()

	return b.Update(ctx, s.TargetID, s.Draft)
}

// CancelEdit discards the open session without contacting the service.
func (b *Board) CancelEdit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.edit == nil {
		return ErrNoEditSession
	}
	b.edit = nil
	return nil
}

// clearEditLocked closes the session if it targets id.
func (b *Board) clearEditLocked(id int64) {
	if b.edit != nil && b.edit.TargetID == id {
		b.edit = nil
	}
}
