package response

import (
	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/session"
	"github.com/dealhive/dealhive/internal/viewmodel"
)

// CommentMutation is the payload of every comment lifecycle operation: the
// resulting moderation status, the session's current visible list and any
// queued notices. Confirm is set when a deletion still awaits confirmation.
type CommentMutation struct {
	Status   string                       `json:"status,omitempty"`
	Comments []viewmodel.CommentViewModel `json:"comments"`
	Notices  []domain.Notice              `json:"notices,omitempty"`
	Confirm  *session.ConfirmPrompt       `json:"confirm,omitempty"`
}

func NewCommentMutation(status domain.ModerationStatus, sess *session.Session) CommentMutation {
	return CommentMutation{
		Status:   string(status),
		Comments: sess.Flow.Manager().Comments(),
		Notices:  sess.DrainNotices(),
	}
}
