package domain

import (
	"context"
	"time"
)

// Store is the merchant a deal points at. The legacy backend sometimes sends
// only a flat slug on the deal and sometimes the full nested object.
type Store struct {
	Slug    string
	Name    string
	LogoURL string
}

// Image is one entry of a deal's image gallery.
type Image struct {
	URL      string
	Position int
}

// Deal is the raw backend-shaped deal record. It deliberately keeps the
// legacy schema's loose typing: prices and temperature travel as strings
// (the old tables store them as VARCHAR), expiry is nullable, and the store
// reference may be nested, flat, or missing. internal/viewmodel is the only
// package allowed to interpret these fields.
type Deal struct {
	ID            int64
	Title         string
	Description   string
	Price         string // numeric-as-string, e.g. "19.99", "$19.99" or garbage
	OriginalPrice string
	CouponCode    string
	Temperature   string // community heat, numeric-as-string
	Verified      bool
	ExpiryAt      *time.Time // nil means the deal never expires
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Store     *Store // nested store object, may be nil
	StoreSlug string // flat fallback reference

	User     *User // poster, may be nil on orphaned records
	Images   []Image
	Comments []Comment // visible comments, newest first
}

// DealRepository defines the contract for deal data access.
type DealRepository interface {
	// Fetch retrieves a paginated list of deals.
	// cursor: pass the cursor from the previous page or empty string for the first page.
	// num: number of deals to fetch per page.
	Fetch(ctx context.Context, cursor string, num int64) ([]Deal, error)

	// GetByID retrieves a single deal by its ID, comments included.
	// Returns ErrNotFound if the deal doesn't exist.
	GetByID(ctx context.Context, id int64) (Deal, error)

	// AddHeat applies a buffered temperature delta to a deal.
	AddHeat(ctx context.Context, id int64, delta int64) error

	// FetchIDs lists deal IDs for bloom filter warm-up.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// DealCache is the redis-backed hot path in front of DealRepository.
type DealCache interface {
	GetDeal(ctx context.Context, id int64) (Deal, error)
	SetDeal(ctx context.Context, d *Deal) error
	DeleteDeal(ctx context.Context, id int64) error

	GetHome(ctx context.Context) ([]Deal, error)
	SetHome(ctx context.Context, deals []Deal) error

	// IncrHeat buffers a vote delta and returns the buffered total for the deal.
	IncrHeat(ctx context.Context, id int64, delta int64) (int64, error)
	// GetHeat returns the buffered (not yet flushed) delta for the deal.
	GetHeat(ctx context.Context, id int64) (int64, error)
	// FetchAndResetHeat drains all buffered deltas for the flush worker.
	FetchAndResetHeat(ctx context.Context) (map[int64]int64, error)
}

type DealUsecase interface {
	Fetch(ctx context.Context, cursor string, num int64) ([]Deal, string, error)
	GetByID(ctx context.Context, id int64) (Deal, error)
	Vote(ctx context.Context, id int64, delta int64) error
	InitBloomFilter(ctx context.Context) error
}
