package model

import (
	"time"

	"github.com/dealhive/dealhive/domain"
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(64)"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Avatar    string    `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:varchar(16);not null;default:member"`
	Trusted   bool      `gorm:"default:false"`
	UpdatedAt time.Time `gorm:"type:datetime"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Username:  m.Username,
		Avatar:    m.Avatar,
		Role:      domain.Role(m.Role),
		Trusted:   m.Trusted,
		UpdatedAt: m.UpdatedAt,
		CreatedAt: m.CreatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		Trusted:   u.Trusted,
		UpdatedAt: u.UpdatedAt,
		CreatedAt: u.CreatedAt,
	}
}
