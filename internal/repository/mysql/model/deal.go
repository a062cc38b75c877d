package model

import (
	"time"

	"github.com/dealhive/dealhive/domain"
)

// Deal mirrors the legacy `deal` table. Price and temperature are VARCHAR
// there (the old PHP backend wrote formatted strings), so they stay strings
// here and are only interpreted by the viewmodel layer.
type Deal struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Description   string     `gorm:"type:text"`
	Price         string     `gorm:"type:varchar(32)"`
	OriginalPrice string     `gorm:"column:original_price;type:varchar(32)"`
	CouponCode    string     `gorm:"column:coupon_code;type:varchar(64)"`
	Temperature   string     `gorm:"type:varchar(16)"`
	Verified      bool       `gorm:"default:false"`
	StoreSlug     string     `gorm:"column:store_slug;type:varchar(64)"`
	StoreName     string     `gorm:"column:store_name;type:varchar(128)"`
	StoreLogoURL  string     `gorm:"column:store_logo_url;type:varchar(255)"`
	UserID        int64      `gorm:"column:user_id;not null"`
	ExpiryAt      *time.Time `gorm:"column:expiry_at;type:datetime"`
	UpdatedAt     time.Time  `gorm:"type:datetime"`
	CreatedAt     time.Time  `gorm:"type:datetime"`
}

func (Deal) TableName() string {
	return "deal"
}

type DealImage struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	DealID   int64  `gorm:"column:deal_id;not null;index"`
	URL      string `gorm:"column:url;type:varchar(255);not null"`
	Position int    `gorm:"default:0"`
}

func (DealImage) TableName() string {
	return "deal_image"
}

func (m *Deal) ToDomain() domain.Deal {
	d := domain.Deal{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		CouponCode:    m.CouponCode,
		Temperature:   m.Temperature,
		Verified:      m.Verified,
		StoreSlug:     m.StoreSlug,
		ExpiryAt:      m.ExpiryAt,
		UpdatedAt:     m.UpdatedAt,
		CreatedAt:     m.CreatedAt,
		User: &domain.User{
			ID: m.UserID,
		},
	}
	// Only rows migrated from the new store table carry name/logo; the rest
	// keep the flat slug reference.
	if m.StoreName != "" || m.StoreLogoURL != "" {
		d.Store = &domain.Store{
			Slug:    m.StoreSlug,
			Name:    m.StoreName,
			LogoURL: m.StoreLogoURL,
		}
	}
	return d
}

func NewDealFromDomain(d *domain.Deal) *Deal {
	m := &Deal{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		CouponCode:    d.CouponCode,
		Temperature:   d.Temperature,
		Verified:      d.Verified,
		StoreSlug:     d.StoreSlug,
		ExpiryAt:      d.ExpiryAt,
		UpdatedAt:     d.UpdatedAt,
		CreatedAt:     d.CreatedAt,
	}
	if d.User != nil {
		m.UserID = d.User.ID
	}
	if d.Store != nil {
		m.StoreSlug = d.Store.Slug
		m.StoreName = d.Store.Name
		m.StoreLogoURL = d.Store.LogoURL
	}
	return m
}

func (m *DealImage) ToDomain() domain.Image {
	return domain.Image{
		URL:      m.URL,
		Position: m.Position,
	}
}
