package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/pkg/logger"
	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
)

// BookingStore answers overlap queries against pending and confirmed bookings.
// Implementations treat stays as half-open [checkIn, checkOut).
type BookingStore interface {
	HasActiveOverlapForRoom(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	PropertiesWithActiveOverlap(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time) (map[uuid.UUID]bool, error)
}

// PropertyStore returns active properties matching a location with at least
// minRooms rooms, in a stable order.
type PropertyStore interface {
	ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*property.Property, error)
}

// Checker decides room and property availability. It holds no booking state.
type Checker struct {
	bookings   BookingStore
	properties PropertyStore
	cache      *Cache
}

// NewChecker creates an availability checker
func NewChecker(bookings BookingStore, properties PropertyStore) *Checker {
	return &Checker{bookings: bookings, properties: properties}
}

// SetCache enables result caching for FindAvailableProperties (optional)
func (c *Checker) SetCache(cache *Cache) {
	c.cache = cache
}

// HasConflict reports whether an active booking on the room overlaps the stay.
func (c *Checker) HasConflict(ctx context.Context, q ConflictQuery) (bool, error) {
	stay := DateRange{CheckIn: q.CheckIn, CheckOut: q.CheckOut}
	if stay.reversed() {
		metrics.RecordAvailabilityCheck("room", "invalid")
		return false, ErrInvalidDateRange
	}
	if q.RoomID == uuid.Nil {
		metrics.RecordAvailabilityCheck("room", "invalid")
		return false, missing("roomId")
	}
	if err := stay.Validate(); err != nil {
		metrics.RecordAvailabilityCheck("room", "invalid")
		return false, err
	}
	stay = stay.normalized()

	conflict, err := c.bookings.HasActiveOverlapForRoom(ctx, q.RoomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		metrics.RecordAvailabilityCheck("room", "error")
		return false, storeUnavailable("room overlap", err)
	}

	if conflict {
		metrics.RecordAvailabilityCheck("room", "conflict")
	} else {
		metrics.RecordAvailabilityCheck("room", "available")
	}
	return conflict, nil
}

// FindAvailableProperties returns active properties in the location with
// enough rooms for the guests and no active booking overlapping the stay.
// Store order is preserved.
func (c *Checker) FindAvailableProperties(ctx context.Context, p SearchParams) ([]*property.Property, error) {
	if err := p.validate(); err != nil {
		metrics.RecordAvailabilityCheck("search", "invalid")
		return nil, err
	}
	p.Location = strings.TrimSpace(p.Location)
	stay := DateRange{CheckIn: p.CheckIn, CheckOut: p.CheckOut}.normalized()
	p.CheckIn, p.CheckOut = stay.CheckIn, stay.CheckOut

	start := time.Now()
	defer func() { metrics.RecordSearch(time.Since(start).Seconds()) }()

	// Set must write under this version, not the one current after the store reads
	cached, version, ok := c.cache.Get(ctx, p)
	if ok {
		metrics.RecordAvailabilityCheck("search", "cached")
		return cached, nil
	}

	candidates, err := c.properties.ListSearchCandidates(ctx, p.Location, p.GuestCount)
	if err != nil {
		metrics.RecordAvailabilityCheck("search", "error")
		return nil, storeUnavailable("search candidates", err)
	}

	available := make([]*property.Property, 0, len(candidates))
	if len(candidates) > 0 {
		ids := make([]uuid.UUID, 0, len(candidates))
		for _, candidate := range candidates {
			ids = append(ids, candidate.ID)
		}

		booked, err := c.bookings.PropertiesWithActiveOverlap(ctx, ids, stay.CheckIn, stay.CheckOut)
		if err != nil {
			metrics.RecordAvailabilityCheck("search", "error")
			return nil, storeUnavailable("property overlap", err)
		}

		for _, candidate := range candidates {
			// the store already filters, but a listing may have been
			// deactivated between queries
			if !candidate.IsActive() || booked[candidate.ID] {
				continue
			}
			available = append(available, candidate)
		}
	}

	c.cache.Set(ctx, version, p, available)
	metrics.RecordAvailabilityCheck("search", "ok")

	logger.FromContext(ctx).Debug().
		Str("location", p.Location).
		Int("candidates", len(candidates)).
		Int("available", len(available)).
		Msg("Availability search")

	return available, nil
}

// IsUserError reports whether err comes from bad input rather than the store.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrInvalidGuestCount) ||
		errors.Is(err, ErrInvalidDate)
}
