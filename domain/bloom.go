package domain

import "context"

// BloomRepository tracks the set of existing deal IDs so that comment writes
// against a made-up deal can be rejected without touching the database.
type BloomRepository interface {
	// Add puts an ID into the filter
	Add(ctx context.Context, id int64) error

	// Exists checks whether an ID may exist.
	// true: possibly exists (check cache/DB next)
	// false: definitely absent (404 right away)
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd loads many IDs at once, used on warm-up
	BulkAdd(ctx context.Context, ids []int64) error
}
