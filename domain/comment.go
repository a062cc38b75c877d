package domain

import (
	"context"
	"time"
)

// ModerationStatus is the visibility state of a comment. A pending comment
// exists server-side but is withheld from every list until a moderator
// approves it.
type ModerationStatus string

const (
	StatusVisible ModerationStatus = "visible"
	StatusPending ModerationStatus = "pending"
)

// Comment domain model
type Comment struct {
	ID     int64  `json:"id"`
	DealID int64  `json:"deal_id"`
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
	Likes  int64  `json:"likes"`

	Status ModerationStatus `json:"status"`
	// PendingText holds an edit awaiting re-moderation. The previously
	// approved Text keeps showing until the edit is approved.
	PendingText string `json:"pending_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User 评论作者信息
	User *User `json:"user,omitempty"`
}

// CommentService is the remote comment service the session layer talks to.
// Implementations decide visible-vs-pending; callers only consume the result.
type CommentService interface {
	// Create submits a new comment. On success the returned status says
	// whether the comment is immediately visible or queued for moderation.
	Create(ctx context.Context, dealID int64, author *User, text string) (Comment, ModerationStatus, error)

	// Update replaces a comment's text. A pending status means the previous
	// text stays published until the edit is approved.
	Update(ctx context.Context, commentID int64, actor *User, text string) (ModerationStatus, error)

	// Delete removes a comment. Deleting an already-absent comment succeeds.
	Delete(ctx context.Context, commentID int64, actor *User) error
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	CommentService

	// FetchByDeal lists the visible comments of a deal, newest first.
	FetchByDeal(ctx context.Context, dealID int64) ([]Comment, error)

	// Moderate approves or rejects a pending comment or pending edit.
	// Admin only; approve promotes, reject discards.
	Moderate(ctx context.Context, commentID int64, actor *User, approve bool) error
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	Store(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id int64) error

	// FetchByDeal returns visible comments of a deal, newest first.
	FetchByDeal(ctx context.Context, dealID int64) ([]Comment, error)

	// CountVisibleByUser counts a user's published comments, used by the
	// moderation gate to recognize first-time authors.
	CountVisibleByUser(ctx context.Context, userID int64) (int64, error)
}
