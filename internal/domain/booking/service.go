package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/domain/room"
	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/pkg/logger"
	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
)

// Event types published on booking writes
const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
)

// ConflictChecker is satisfied by *availability.Checker
type ConflictChecker interface {
	HasConflict(ctx context.Context, q availability.ConflictQuery) (bool, error)
}

// PropertyReader looks up a property; (nil, nil) means not found.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// RoomReader looks up a room; (nil, nil) means not found.
type RoomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
}

// SearchInvalidator drops cached availability results.
type SearchInvalidator interface {
	Invalidate(ctx context.Context)
}

// EventPublisher pushes dashboard notifications.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// Actor is the caller of a booking operation. A zero UserID is anonymous.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

func (a Actor) isStaff() bool {
	return a.Role == user.RoleAdmin || a.Role == user.RoleManager
}

// Service handles booking business logic
type Service struct {
	repo       Repository
	checker    ConflictChecker
	properties PropertyReader
	rooms      RoomReader
	search     SearchInvalidator
	events     EventPublisher
}

// NewService creates booking service
func NewService(repo Repository, checker ConflictChecker, properties PropertyReader, rooms RoomReader) *Service {
	return &Service{
		repo:       repo,
		checker:    checker,
		properties: properties,
		rooms:      rooms,
	}
}

// SetSearchInvalidator wires the availability cache (optional)
func (s *Service) SetSearchInvalidator(inv SearchInvalidator) {
	s.search = inv
}

// SetEventPublisher wires the notification hub (optional)
func (s *Service) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// Create reserves a room after checking the stay and the room's availability.
func (s *Service) Create(ctx context.Context, actor Actor, req *CreateBookingRequest) (*Booking, error) {
	if req.Manual && !actor.isStaff() {
		return nil, ErrManualNotAllowed
	}

	b := &Booking{
		ID:             uuid.New(),
		GuestName:      strings.TrimSpace(req.GuestName),
		GuestEmail:     strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		GuestCount:     req.GuestCount,
		SpecialRequest: strings.TrimSpace(req.SpecialRequest),
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
	}
	if actor.UserID != uuid.Nil {
		b.GuestID = uuid.NullUUID{UUID: actor.UserID, Valid: true}
	} else if b.GuestName == "" || b.GuestEmail == "" {
		return nil, ErrGuestDetailsRequired
	}
	if req.Manual {
		b.Status = StatusConfirmed
		b.PaymentStatus = PaymentPaid
	}

	var err error
	if b.PropertyID, err = uuid.Parse(req.PropertyID); err != nil {
		return nil, ErrPropertyNotFound
	}
	if b.RoomID, err = uuid.Parse(req.RoomID); err != nil {
		return nil, ErrRoomNotFound
	}
	if b.CheckIn, err = availability.ParseDate(req.CheckIn); err != nil {
		return nil, err
	}
	if b.CheckOut, err = availability.ParseDate(req.CheckOut); err != nil {
		return nil, err
	}
	if err := b.Stay().Validate(); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	if !p.IsActive() && !req.Manual {
		return nil, ErrPropertyInactive
	}

	rm, err := s.rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, ErrRoomNotFound
	}
	if rm.PropertyID != p.ID {
		return nil, ErrRoomNotInProperty
	}
	if !rm.Available && !req.Manual {
		return nil, ErrRoomNotBookable
	}

	// fast rejection; CreateIfAvailable re-checks under the room lock
	conflict, err := s.checker.HasConflict(ctx, availability.ConflictQuery{RoomID: b.RoomID, CheckIn: b.CheckIn, CheckOut: b.CheckOut})
	if err != nil {
		return nil, err
	}
	if conflict {
		metrics.RecordBookingConflict()
		return nil, ErrRoomUnavailable
	}

	if req.TotalPrice != nil {
		price := *req.TotalPrice
		b.TotalPrice = &price
	} else {
		price := float64(b.Stay().Nights()) * rm.Price
		b.TotalPrice = &price
	}

	if err := s.repo.CreateIfAvailable(ctx, b); err != nil {
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	metrics.RecordBookingCreated(string(b.Status))
	logger.FromContext(ctx).Info().
		Str("booking_id", b.ID.String()).
		Str("room_id", b.RoomID.String()).
		Str("status", string(b.Status)).
		Msg("Booking created")

	s.afterWrite(ctx, EventCreated, b)
	return b, nil
}

// GetByID returns a booking visible to the actor
func (s *Service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !user.HasPermission(actor.Role, user.PermBookingView) && !b.IsOwnedBy(actor.UserID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// List returns bookings matching filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Booking, int, error) {
	return s.repo.List(ctx, normalizeFilter(filter))
}

// ListMine returns the actor's own bookings
func (s *Service) ListMine(ctx context.Context, actor Actor, filter ListFilter) ([]*Booking, int, error) {
	filter.GuestID = actor.UserID
	return s.repo.List(ctx, normalizeFilter(filter))
}

// Approve confirms a pending booking
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, id, StatusConfirmed)
}

// Cancel cancels a pending or confirmed booking and releases its dates
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, id, StatusCancelled)
}

// Complete marks a confirmed stay as finished
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, id, StatusCompleted)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !b.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	payment := b.PaymentStatus
	switch to {
	case StatusCancelled:
		if payment == PaymentPaid {
			payment = PaymentRefunded
		} else {
			payment = PaymentCancelled
		}
	}

	from := b.Status
	if err := s.repo.UpdateStatus(ctx, b, to, payment); err != nil {
		return nil, err
	}

	metrics.RecordBookingTransition(string(to))
	logger.FromContext(ctx).Info().
		Str("booking_id", b.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Booking status changed")

	s.afterWrite(ctx, EventStatusChanged, b)
	return b, nil
}

func (s *Service) afterWrite(ctx context.Context, eventType string, b *Booking) {
	if s.search != nil {
		s.search.Invalidate(ctx)
	}
	if s.events != nil {
		s.events.Publish(ctx, eventType, ResponseFromEntity(b))
	}
}

func normalizeFilter(f ListFilter) ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}
