package viewmodel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dealhive/dealhive/domain"
)

// DateTimeFormat is the display format for posted/commented timestamps.
const DateTimeFormat = "2006-01-02 15:04:05"

// trendingThreshold: a deal is trending once its community temperature
// crosses this value.
const trendingThreshold = 100

// DealViewModel is the display-ready projection of a raw deal record. All
// derived fields are pre-computed and all fallbacks resolved; it carries no
// backend field names and is immutable once produced.
type DealViewModel struct {
	ID            int64              `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Price         string             `json:"price"`
	OriginalPrice string             `json:"original_price"`
	Discount      string             `json:"discount"`
	CouponCode    string             `json:"coupon_code"`
	CommentsCount int                `json:"comments_count"`
	TimePosted    string             `json:"time_posted"`
	TimeLeft      string             `json:"time_left"`
	Verified      bool               `json:"verified"`
	Trending      bool               `json:"trending"`
	HeatScore     int64              `json:"heat_score"`
	StoreIcon     string             `json:"store_icon"`
	StoreName     string             `json:"store_name"`
	PostedBy      string             `json:"posted_by"`
	Images        []string           `json:"images"`
	Comments      []CommentViewModel `json:"comments"`
}

// MapDeal projects a raw backend deal record into its display form.
// A nil input yields nil, never an error; every missing or malformed field
// degrades to its documented fallback.
func MapDeal(raw *domain.Deal) *DealViewModel {
	return MapDealAt(raw, time.Now())
}

// MapDealAt is MapDeal with an explicit clock, so the time-remaining bucket
// is a pure function of its inputs.
func MapDealAt(raw *domain.Deal, now time.Time) *DealViewModel {
	if raw == nil {
		return nil
	}

	price := parseAmount(raw.Price)
	originalPrice := parseAmount(raw.OriginalPrice)
	temperature := parseAmount(raw.Temperature)

	vm := &DealViewModel{
		ID:            raw.ID,
		Title:         raw.Title,
		Description:   raw.Description,
		Price:         formatAmount(price),
		OriginalPrice: formatAmount(originalPrice),
		Discount:      formatDiscount(price, originalPrice),
		CouponCode:    raw.CouponCode,
		CommentsCount: len(raw.Comments),
		TimePosted:    raw.CreatedAt.Format(DateTimeFormat),
		TimeLeft:      TimeLeft(now, raw.ExpiryAt),
		Verified:      raw.Verified,
		Trending:      temperature > trendingThreshold,
		HeatScore:     int64(temperature),
		StoreIcon:     resolveStoreIcon(raw.Store, raw.StoreSlug),
		StoreName:     resolveStoreName(raw.Store, raw.StoreSlug),
		PostedBy:      postedBy(raw.User),
	}

	vm.Images = make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		if img.URL != "" {
			vm.Images = append(vm.Images, img.URL)
		}
	}

	vm.Comments = make([]CommentViewModel, 0, len(raw.Comments))
	for i := range raw.Comments {
		vm.Comments = append(vm.Comments, MapComment(&raw.Comments[i]))
	}

	return vm
}

// parseAmount implements the parse-or-zero policy for the legacy
// numeric-as-string columns: currency symbols, thousands separators and
// whitespace are tolerated, anything unparseable degrades to 0.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatDiscount is non-empty only when both prices are positive and the
// computed percentage is positive.
func formatDiscount(price, originalPrice float64) string {
	if price <= 0 || originalPrice <= 0 {
		return ""
	}
	pct := int(math.Round((originalPrice - price) / originalPrice * 100))
	if pct <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%% off", pct)
}

func postedBy(user *domain.User) string {
	if user == nil {
		return fallbackName
	}
	if user.Name != "" {
		return user.Name
	}
	if user.Username != "" {
		return user.Username
	}
	return fallbackName
}
