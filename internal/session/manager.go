package session

import (
	"context"
	"strings"
	"sync"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/viewmodel"
	"github.com/sirupsen/logrus"
)

// Manager owns the visible comment list of one deal for the lifetime of a
// viewing session. It mediates create/edit/delete against the remote comment
// service and only ever mutates the list inside the success path of a
// resolved call — there are no optimistic inserts. Pending-moderation
// submissions are acknowledged through the returned status but never enter
// the list.
//
// The manager performs no authorization; ownership/admin checks happen at
// the presentation boundary and the comment service fails safe underneath.
type Manager struct {
	dealID int64
	svc    domain.CommentService

	mu       sync.Mutex
	comments []viewmodel.CommentViewModel
}

// NewManager seeds a manager with the deal's visible comments, newest first.
// The seed slice is copied; the manager's list is never shared.
func NewManager(dealID int64, seed []viewmodel.CommentViewModel, svc domain.CommentService) *Manager {
	comments := make([]viewmodel.CommentViewModel, len(seed))
	copy(comments, seed)
	return &Manager{
		dealID:   dealID,
		svc:      svc,
		comments: comments,
	}
}

func (m *Manager) DealID() int64 {
	return m.dealID
}

// Comments returns a snapshot of the visible list, newest first.
func (m *Manager) Comments() []viewmodel.CommentViewModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]viewmodel.CommentViewModel, len(m.comments))
	copy(res, m.comments)
	return res
}

// AddComment submits a new comment. Empty text and missing identity are
// rejected locally without a remote call. A visible result is prepended to
// the list; a pending result leaves the list untouched and is only reported
// through the returned status. Concurrent calls are permitted: each
// successful response prepends independently in the order responses arrive.
func (m *Manager) AddComment(ctx context.Context, text string, actor *domain.User) (domain.ModerationStatus, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrBadParamInput
	}
	if actor == nil || actor.ID == 0 {
		return "", domain.ErrBadParamInput
	}

	comment, status, err := m.svc.Create(ctx, m.dealID, actor, text)
	if err != nil {
		logrus.Warnf("comment create failed for deal %d: %v", m.dealID, err)
		return "", err
	}

	if status == domain.StatusVisible {
		if comment.User == nil {
			comment.User = actor
		}
		vm := viewmodel.MapComment(&comment)

		m.mu.Lock()
		m.comments = append([]viewmodel.CommentViewModel{vm}, m.comments...)
		m.mu.Unlock()
	}

	return status, nil
}

// EditComment replaces the text of a listed comment. Saving empty or
// unchanged text is a local no-op success that never reaches the remote. A
// pending result means the edit awaits re-moderation: the previously visible
// text stays in place until a later refresh confirms approval.
func (m *Manager) EditComment(ctx context.Context, id int64, newText string, actor *domain.User) (domain.ModerationStatus, error) {
	newText = strings.TrimSpace(newText)

	m.mu.Lock()
	idx := m.indexOf(id)
	var current string
	if idx >= 0 {
		current = m.comments[idx].Text
	}
	m.mu.Unlock()

	if idx < 0 {
		return "", domain.ErrNotFound
	}
	if newText == "" || newText == current {
		return domain.StatusVisible, nil
	}

	status, err := m.svc.Update(ctx, id, actor, newText)
	if err != nil {
		logrus.Warnf("comment update failed, id %d: %v", id, err)
		return "", err
	}

	if status == domain.StatusVisible {
		m.mu.Lock()
		// Re-locate: a concurrent delete may have raced the response.
		if idx := m.indexOf(id); idx >= 0 {
			m.comments[idx].Text = newText
		}
		m.mu.Unlock()
	}

	return status, nil
}

// RemoveComment deletes a comment. The interaction layer is responsible for
// confirming the action first. A remote success for an id that is no longer
// listed is a no-op success.
func (m *Manager) RemoveComment(ctx context.Context, id int64, actor *domain.User) error {
	if err := m.svc.Delete(ctx, id, actor); err != nil {
		logrus.Warnf("comment delete failed, id %d: %v", id, err)
		return err
	}

	m.mu.Lock()
	if idx := m.indexOf(id); idx >= 0 {
		m.comments = append(m.comments[:idx], m.comments[idx+1:]...)
	}
	m.mu.Unlock()

	return nil
}

// indexOf requires m.mu to be held.
func (m *Manager) indexOf(id int64) int {
	for i := range m.comments {
		if m.comments[i].ID == id {
			return i
		}
	}
	return -1
}
