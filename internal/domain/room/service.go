package room

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
)

// PropertyReader is the slice of the property repository rooms need
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Service handles room business logic
type Service struct {
	repo       Repository
	properties PropertyReader
}

// NewService creates room service
func NewService(repo Repository, properties PropertyReader) *Service {
	return &Service{repo: repo, properties: properties}
}

// Create adds a room to an existing property
func (s *Service) Create(ctx context.Context, propertyID uuid.UUID, req *CreateRoomRequest) (*Room, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}

	r := &Room{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		RoomType:    Type(req.RoomType),
		Price:       *req.Price,
		Available:   true,
		Description: req.Description,
		Amenities:   pq.StringArray(req.Amenities),
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if r.Amenities == nil {
		r.Amenities = pq.StringArray{}
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetByID returns a room or ErrRoomNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// ListByProperty returns every room of a property
func (s *Service) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Room, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

// Update applies the provided fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRoomRequest) (*Room, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RoomType != nil {
		r.RoomType = Type(*req.RoomType)
	}
	if req.Price != nil {
		r.Price = *req.Price
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Amenities != nil {
		r.Amenities = pq.StringArray(*req.Amenities)
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a room that has no bookings
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
