package room

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Type represents room category
type Type string

const (
	TypeStandard Type = "standard"
	TypeDeluxe   Type = "deluxe"
	TypeSuite    Type = "suite"
)

// Room belongs to a property and is the unit a booking reserves.
type Room struct {
	ID          uuid.UUID      `db:"id"`
	PropertyID  uuid.UUID      `db:"property_id"`
	RoomType    Type           `db:"room_type"`
	Price       float64        `db:"price"`
	Available   bool           `db:"available"`
	Description string         `db:"description"`
	Amenities   pq.StringArray `db:"amenities"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
