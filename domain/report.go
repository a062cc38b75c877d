package domain

import (
	"context"
	"time"
)

// Report is an abuse report filed by a member against a comment or a deal.
type Report struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"` // Reporter
	ItemType  string    `json:"item_type"` // "deal" or "comment"
	ItemID    int64     `json:"item_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ReportItemDeal    = "deal"
	ReportItemComment = "comment"
)

type ReportRepository interface {
	Store(ctx context.Context, r *Report) error
}

type ReportUsecase interface {
	// File records an abuse report. Duplicate reports from the same user on
	// the same item return ErrConflict.
	File(ctx context.Context, r *Report) error
}
