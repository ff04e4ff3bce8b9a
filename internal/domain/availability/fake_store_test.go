package availability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
)

type fakeBooking struct {
	RoomID     uuid.UUID
	PropertyID uuid.UUID
	Status     string
	Stay       DateRange
}

type fakeStore struct {
	mu         sync.Mutex
	bookings   []fakeBooking
	properties []*property.Property
	err        error
	calls      int
}

func (f *fakeStore) active(b fakeBooking) bool {
	return b.Status == "pending" || b.Status == "confirmed"
}

func (f *fakeStore) HasActiveOverlapForRoom(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	stay := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	for _, b := range f.bookings {
		if b.RoomID == roomID && f.active(b) && b.Stay.Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PropertiesWithActiveOverlap(ctx context.Context, ids []uuid.UUID, checkIn, checkOut time.Time) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	stay := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	out := map[uuid.UUID]bool{}
	for _, b := range f.bookings {
		if wanted[b.PropertyID] && f.active(b) && b.Stay.Overlaps(stay) {
			out[b.PropertyID] = true
		}
	}
	return out, nil
}

func (f *fakeStore) ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*property.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*property.Property
	for _, p := range f.properties {
		if p.Status != property.StatusActive || p.Rooms < minRooms {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Location), strings.ToLower(location)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(in, out string) DateRange {
	return DateRange{CheckIn: date(in), CheckOut: date(out)}
}

func newProperty(name, location string, rooms int, status property.Status) *property.Property {
	return &property.Property{ID: uuid.New(), Name: name, Location: location, Rooms: rooms, Status: status}
}
