package model

import (
	"time"

	"github.com/dealhive/dealhive/domain"
)

type Report struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ItemType  string    `gorm:"column:item_type;type:varchar(20);not null"`
	ItemID    int64     `gorm:"column:item_id;not null;index"`
	Reason    string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Report) TableName() string {
	return "report"
}

func NewReportFromDomain(r *domain.Report) *Report {
	return &Report{
		ID:        r.ID,
		UserID:    r.UserID,
		ItemType:  r.ItemType,
		ItemID:    r.ItemID,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}

func (m *Report) ToDomain() domain.Report {
	return domain.Report{
		ID:        m.ID,
		UserID:    m.UserID,
		ItemType:  m.ItemType,
		ItemID:    m.ItemID,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}
