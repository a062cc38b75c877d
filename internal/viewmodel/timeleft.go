package viewmodel

import (
	"fmt"
	"time"
)

const absoluteDateFormat = "Jan 2, 2006"

// TimeLeft buckets the remaining lifetime of a deal into a display string.
// It is a total function of (now, expiry); no other deal field may influence
// the result.
//
// nil expiry       -> "No expiry"
// expiry <= now    -> "Expired"
// > 30 days away   -> absolute date ("Jan 2, 2006")
// >= 1 day away    -> "{d}d {h}h"
// >= 1 hour away   -> "{h}h {m}m"
// otherwise        -> "Ending soon"
func TimeLeft(now time.Time, expiry *time.Time) string {
	if expiry == nil {
		return "No expiry"
	}

	diff := expiry.Sub(now)
	if diff <= 0 {
		return "Expired"
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60

	switch {
	case days > 30:
		return expiry.Format(absoluteDateFormat)
	case days >= 1:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours >= 1:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return "Ending soon"
	}
}
