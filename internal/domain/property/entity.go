package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents property listing status
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const DefaultDescription = "No description provided"

// Property is a bookable short-let listing.
// Rooms is the listing's room count and doubles as its guest capacity in search.
type Property struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Location    string         `db:"location"`
	Rooms       int            `db:"rooms"`
	Amenities   pq.StringArray `db:"amenities"`
	Images      pq.StringArray `db:"images"`
	Description string         `db:"description"`
	Status      Status         `db:"status"`
	AirbnbURL   string         `db:"airbnb_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// IsActive reports whether the property can appear in search results
func (p *Property) IsActive() bool {
	return p.Status == StatusActive
}
