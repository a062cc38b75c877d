package model

import (
	"time"

	"github.com/dealhive/dealhive/domain"
)

type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	DealID      int64     `gorm:"column:deal_id;not null;index"`
	UserID      int64     `gorm:"column:user_id;not null"`
	Text        string    `gorm:"column:text;type:text;not null"`
	Likes       int64     `gorm:"default:0"`
	Status      string    `gorm:"type:varchar(16);not null;default:visible"`
	PendingText string    `gorm:"column:pending_text;type:text"`
	UpdatedAt   time.Time `gorm:"type:datetime"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:          c.ID,
		DealID:      c.DealID,
		UserID:      c.UserID,
		Text:        c.Text,
		Likes:       c.Likes,
		Status:      string(c.Status),
		PendingText: c.PendingText,
		UpdatedAt:   c.UpdatedAt,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:          m.ID,
		DealID:      m.DealID,
		UserID:      m.UserID,
		Text:        m.Text,
		Likes:       m.Likes,
		Status:      domain.ModerationStatus(m.Status),
		PendingText: m.PendingText,
		UpdatedAt:   m.UpdatedAt,
		CreatedAt:   m.CreatedAt,
	}
}
