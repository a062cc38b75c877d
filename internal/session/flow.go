package session

import (
	"context"
	"strings"
	"sync"

	"github.com/dealhive/dealhive/domain"
)

const (
	msgCommentPosted  = "Comment posted."
	msgCommentPending = "Your comment was submitted for moderation and will appear once approved."
	msgCommentFailed  = "Could not post your comment. Please try again."
	msgEditSaved      = "Comment updated."
	msgEditPending    = "Your edit is queued for review; the previous text stays visible until approved."
	msgEditFailed     = "Could not save your edit. Please try again."
	msgDeleted        = "Comment deleted."
	msgDeleteFailed   = "Could not delete the comment. Please try again."

	// Named as irreversible on purpose; deletion has no undo.
	msgConfirmDelete = "Delete this comment? This cannot be undone."
)

// ConfirmPrompt asks the user to approve a destructive action before it runs.
type ConfirmPrompt struct {
	CommentID int64  `json:"comment_id"`
	Message   string `json:"message"`
}

// InteractionFlow drives the user-facing consequences of comment lifecycle
// transitions: moderation notices, the inline edit buffer, and the
// confirm-before-destroy contract. All notices go through the injected
// Notifier; the flow never talks to a UI directly.
type InteractionFlow struct {
	manager *Manager
	notify  domain.Notifier

	mu sync.Mutex
	// submitting guards the compose action only; edits and deletes on other
	// comments stay available while a submission is in flight.
	submitting      bool
	editingID       int64
	editBuffer      string
	pendingDeleteID int64
}

func NewInteractionFlow(manager *Manager, notify domain.Notifier) *InteractionFlow {
	if notify == nil {
		notify = func(domain.Notice) {}
	}
	return &InteractionFlow{
		manager: manager,
		notify:  notify,
	}
}

func (f *InteractionFlow) Manager() *Manager {
	return f.manager
}

// Submitting reports whether a top-level comment submission is outstanding.
func (f *InteractionFlow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SubmitComment posts a new top-level comment. While one submission is in
// flight further submissions are refused with ErrConflict; the rest of the
// flow stays interactive.
func (f *InteractionFlow) SubmitComment(ctx context.Context, text string, actor *domain.User) (domain.ModerationStatus, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return "", domain.ErrConflict
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	status, err := f.manager.AddComment(ctx, text, actor)
	if err != nil {
		if err != domain.ErrBadParamInput {
			f.notify(domain.Notice{Level: domain.NoticeError, Message: msgCommentFailed})
		}
		return "", err
	}

	if status == domain.StatusPending {
		f.notify(domain.Notice{Level: domain.NoticeInfo, Message: msgCommentPending})
	} else {
		f.notify(domain.Notice{Level: domain.NoticeSuccess, Message: msgCommentPosted})
	}
	return status, nil
}

// BeginEdit enters edit mode for a listed comment, seeding the buffer with
// its current text. Edit mode is local state only. There is a single edit
// slot per flow: starting an edit on a different comment while one is open is
// refused with ErrConflict, so two in-flight edits can never save each
// other's buffer. Re-entering the same comment reseeds the buffer.
func (f *InteractionFlow) BeginEdit(id int64) error {
	var current string
	found := false
	for _, c := range f.manager.Comments() {
		if c.ID == id {
			current = c.Text
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editingID != 0 && f.editingID != id {
		return domain.ErrConflict
	}
	f.editingID = id
	f.editBuffer = current
	return nil
}

// EditBuffer returns the comment under edit and the buffer content.
func (f *InteractionFlow) EditBuffer() (int64, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID, f.editBuffer
}

func (f *InteractionFlow) UpdateEditBuffer(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editingID != 0 {
		f.editBuffer = text
	}
}

// CancelEdit discards the buffer and restores the original text without any
// remote call.
func (f *InteractionFlow) CancelEdit() {
	f.mu.Lock()
	f.editingID = 0
	f.editBuffer = ""
	f.mu.Unlock()
}

// SaveEdit commits the edit buffer. Empty or unchanged text silently exits
// edit mode with no remote call. A failed save keeps edit mode open so the
// user can retry.
func (f *InteractionFlow) SaveEdit(ctx context.Context, actor *domain.User) (domain.ModerationStatus, error) {
	f.mu.Lock()
	id := f.editingID
	text := strings.TrimSpace(f.editBuffer)
	f.mu.Unlock()

	if id == 0 {
		return "", domain.ErrBadParamInput
	}

	// Empty or unchanged text silently exits edit mode, matching the
	// manager's no-op precondition. No remote call, no notice.
	noop := text == ""
	if !noop {
		for _, c := range f.manager.Comments() {
			if c.ID == id && c.Text == text {
				noop = true
				break
			}
		}
	}
	if noop {
		f.CancelEdit()
		return domain.StatusVisible, nil
	}

	status, err := f.manager.EditComment(ctx, id, text, actor)
	if err != nil {
		f.notify(domain.Notice{Level: domain.NoticeError, Message: msgEditFailed})
		return "", err
	}

	f.CancelEdit()
	if status == domain.StatusPending {
		f.notify(domain.Notice{Level: domain.NoticeInfo, Message: msgEditPending})
	} else {
		f.notify(domain.Notice{Level: domain.NoticeSuccess, Message: msgEditSaved})
	}
	return status, nil
}

// RequestDelete starts the confirm-before-destroy step. Nothing is deleted
// until ConfirmDelete runs.
func (f *InteractionFlow) RequestDelete(id int64) (ConfirmPrompt, error) {
	found := false
	for _, c := range f.manager.Comments() {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ConfirmPrompt{}, domain.ErrNotFound
	}

	f.mu.Lock()
	f.pendingDeleteID = id
	f.mu.Unlock()

	return ConfirmPrompt{CommentID: id, Message: msgConfirmDelete}, nil
}

// CancelDelete aborts a requested deletion, leaving all state untouched.
func (f *InteractionFlow) CancelDelete() {
	f.mu.Lock()
	f.pendingDeleteID = 0
	f.mu.Unlock()
}

// ConfirmDelete runs the previously requested deletion.
func (f *InteractionFlow) ConfirmDelete(ctx context.Context, actor *domain.User) error {
	f.mu.Lock()
	id := f.pendingDeleteID
	f.pendingDeleteID = 0
	f.mu.Unlock()

	if id == 0 {
		return domain.ErrBadParamInput
	}

	if err := f.manager.RemoveComment(ctx, id, actor); err != nil {
		f.notify(domain.Notice{Level: domain.NoticeError, Message: msgDeleteFailed})
		return err
	}

	f.notify(domain.Notice{Level: domain.NoticeSuccess, Message: msgDeleted})
	return nil
}
