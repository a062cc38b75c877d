package response

import (
	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/viewmodel"
)

// DealList is the paginated browse payload; the next-page cursor travels in
// the X-cursor header.
type DealList struct {
	Deals []*viewmodel.DealViewModel `json:"deals"`
}

// DealDetail is the single-deal payload. Comments inside the deal view model
// reflect the viewer's comment session.
type DealDetail struct {
	Deal    *viewmodel.DealViewModel `json:"deal"`
	Notices []domain.Notice          `json:"notices,omitempty"`
}
