package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad placements: the closed set of UI slots an ad may be shown in.
const (
	PlacementBelowDescription = "below_description"
	PlacementBanner           = "banner"
)

// Ad is an advertisement definition. Weight is the relative selection
// probability among active candidates for the same placement; ClickCount
// only ever increases.
type Ad struct {
	ID          uuid.UUID `json:"id"`
	Placement   string    `json:"placement"`
	ImageURL    string    `json:"image_url"`
	LinkURL     string    `json:"link_url"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Weight      int64     `json:"weight"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidPlacement reports whether p names a known placement slot.
func ValidPlacement(p string) bool {
	switch p {
	case PlacementBelowDescription, PlacementBanner:
		return true
	}
	return false
}
