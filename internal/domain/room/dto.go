package room

import (
	"time"

	"github.com/google/uuid"
)

// CreateRoomRequest for POST /properties/{id}/rooms
type CreateRoomRequest struct {
	RoomType    string   `json:"room_type" validate:"required,room_type"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Available   *bool    `json:"available"`
	Description string   `json:"description" validate:"omitempty,max=600"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
}

// UpdateRoomRequest for PATCH /rooms/{id}
type UpdateRoomRequest struct {
	RoomType    *string   `json:"room_type" validate:"omitempty,room_type"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Available   *bool     `json:"available"`
	Description *string   `json:"description" validate:"omitempty,max=600"`
	Amenities   *[]string `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	RoomType    string    `json:"room_type"`
	Price       float64   `json:"price"`
	Available   bool      `json:"available"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResponseFromEntity converts entity to response
func ResponseFromEntity(r *Room) *RoomResponse {
	amenities := []string(r.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	return &RoomResponse{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		RoomType:    string(r.RoomType),
		Price:       r.Price,
		Available:   r.Available,
		Description: r.Description,
		Amenities:   amenities,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
