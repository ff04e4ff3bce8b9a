package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
)

// Status represents booking lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// PaymentStatus tracks payment separately from the stay
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// transitions lists the statuses each status may move to.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// Booking reserves one room of a property for [CheckIn, CheckOut).
type Booking struct {
	ID             uuid.UUID     `db:"id"`
	GuestID        uuid.NullUUID `db:"guest_id"`
	GuestName      string        `db:"guest_name"`
	GuestEmail     string        `db:"guest_email"`
	PropertyID     uuid.UUID     `db:"property_id"`
	RoomID         uuid.UUID     `db:"room_id"`
	CheckIn        time.Time     `db:"check_in"`
	CheckOut       time.Time     `db:"check_out"`
	Status         Status        `db:"status"`
	PaymentStatus  PaymentStatus `db:"payment_status"`
	GuestCount     int           `db:"guest_count"`
	TotalPrice     *float64      `db:"total_price"`
	SpecialRequest string        `db:"special_request"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

// IsActive reports whether the booking occupies its dates
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Stay returns the booked date range
func (b *Booking) Stay() availability.DateRange {
	return availability.DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// CanTransition reports whether the booking may move to status to
func (b *Booking) CanTransition(to Status) bool {
	for _, allowed := range transitions[b.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether the booking was made by userID
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.GuestID.Valid && b.GuestID.UUID == userID
}
