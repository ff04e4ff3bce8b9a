package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ActiveStatuses are the booking statuses that occupy their dates.
var ActiveStatuses = []string{"pending", "confirmed"}

type bookingStore struct {
	db *sqlx.DB
}

// NewBookingStore creates the Postgres-backed BookingStore
func NewBookingStore(db *sqlx.DB) BookingStore {
	return &bookingStore{db: db}
}

func (s *bookingStore) HasActiveOverlapForRoom(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status = ANY($2)
			  AND check_in < $4
			  AND $3 < check_out
		)
	`
	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, roomID, pq.Array(ActiveStatuses), checkIn, checkOut); err != nil {
		return false, fmt.Errorf("room overlap query: %w", err)
	}
	return exists, nil
}

func (s *bookingStore) PropertiesWithActiveOverlap(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time) (map[uuid.UUID]bool, error) {
	booked := make(map[uuid.UUID]bool)
	if len(propertyIDs) == 0 {
		return booked, nil
	}

	ids := make([]string, len(propertyIDs))
	for i, id := range propertyIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT DISTINCT property_id FROM bookings
		WHERE property_id = ANY($1::uuid[])
		  AND status = ANY($2)
		  AND check_in < $4
		  AND $3 < check_out
	`
	var rows []uuid.UUID
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(ids), pq.Array(ActiveStatuses), checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("property overlap query: %w", err)
	}
	for _, id := range rows {
		booked[id] = true
	}
	return booked, nil
}
