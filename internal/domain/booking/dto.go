package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest for POST /bookings
type CreateBookingRequest struct {
	PropertyID     string   `json:"property_id" validate:"required,uuid"`
	RoomID         string   `json:"room_id" validate:"required,uuid"`
	CheckIn        string   `json:"check_in" validate:"required"`
	CheckOut       string   `json:"check_out" validate:"required"`
	GuestCount     int      `json:"guest_count" validate:"required,gte=1"`
	TotalPrice     *float64 `json:"total_price" validate:"omitempty,gte=0"`
	SpecialRequest string   `json:"special_request" validate:"omitempty,max=600"`
	GuestName      string   `json:"guest_name" validate:"omitempty,min=2,max=100"`
	GuestEmail     string   `json:"guest_email" validate:"omitempty,email"`
	Manual         bool     `json:"manual"`
}

// ListFilter for booking queries
type ListFilter struct {
	Status     Status
	PropertyID uuid.UUID
	GuestID    uuid.UUID
	Page       int
	Limit      int
}

// Offset returns the SQL offset for the filter's page
func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	GuestID        *uuid.UUID `json:"guest_id,omitempty"`
	GuestName      string     `json:"guest_name,omitempty"`
	GuestEmail     string     `json:"guest_email,omitempty"`
	PropertyID     uuid.UUID  `json:"property_id"`
	RoomID         uuid.UUID  `json:"room_id"`
	CheckIn        string     `json:"check_in"`
	CheckOut       string     `json:"check_out"`
	Nights         int        `json:"nights"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	GuestCount     int        `json:"guest_count"`
	TotalPrice     *float64   `json:"total_price"`
	SpecialRequest string     `json:"special_request,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ResponseFromEntity converts entity to response
func ResponseFromEntity(b *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:             b.ID,
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		PropertyID:     b.PropertyID,
		RoomID:         b.RoomID,
		CheckIn:        b.CheckIn.Format("2006-01-02"),
		CheckOut:       b.CheckOut.Format("2006-01-02"),
		Nights:         b.Stay().Nights(),
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		GuestCount:     b.GuestCount,
		TotalPrice:     b.TotalPrice,
		SpecialRequest: b.SpecialRequest,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.GuestID.Valid {
		id := b.GuestID.UUID
		resp.GuestID = &id
	}
	return resp
}

// ResponsesFromEntities converts a slice of bookings
func ResponsesFromEntities(items []*Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, ResponseFromEntity(b))
	}
	return out
}
