package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/domain/room"
)

// fakeRepo keeps bookings in memory. It also serves as the availability
// BookingStore so the checker and the repository share one view.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	inserts  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uuid.UUID]*Booking{}}
}

func (f *fakeRepo) overlaps(roomID, exclude uuid.UUID, stay availability.DateRange) bool {
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.ID != exclude && b.IsActive() && b.Stay().Overlaps(stay) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateIfAvailable(ctx context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlaps(b.RoomID, uuid.Nil, b.Stay()) {
		return ErrRoomUnavailable
	}
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	cp := *b
	f.bookings[b.ID] = &cp
	f.inserts++
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Booking
	for _, b := range f.bookings {
		if filter.GuestID != uuid.Nil && !b.IsOwnedBy(filter.GuestID) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, b *Booking, to Status, payment PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.bookings[b.ID]
	if !ok || stored.Status != b.Status {
		return ErrInvalidTransition
	}
	stored.Status, stored.PaymentStatus = to, payment
	b.Status, b.PaymentStatus = to, payment
	return nil
}

// put stores a booking directly, bypassing the overlap check.
func (f *fakeRepo) put(b *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
}

func (f *fakeRepo) HasActiveOverlapForRoom(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlaps(roomID, uuid.Nil, availability.DateRange{CheckIn: checkIn, CheckOut: checkOut}), nil
}

func (f *fakeRepo) PropertiesWithActiveOverlap(ctx context.Context, ids []uuid.UUID, checkIn, checkOut time.Time) (map[uuid.UUID]bool, error) {
	return map[uuid.UUID]bool{}, nil
}

func (f *fakeRepo) ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*property.Property, error) {
	return nil, nil
}

type fakeProperties map[uuid.UUID]*property.Property

func (f fakeProperties) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	return f[id], nil
}

type fakeRooms map[uuid.UUID]*room.Room

func (f fakeRooms) GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	return f[id], nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) {
	p.mu.Lock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	p.mu.Unlock()
}
