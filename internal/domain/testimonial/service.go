package testimonial

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const EventCreated = "testimonial.created"

// EventPublisher pushes dashboard notifications.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// Service handles testimonial business logic
type Service struct {
	repo   Repository
	events EventPublisher
}

// NewService creates testimonial service
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

// Create stores a testimonial awaiting moderation
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Testimonial, error) {
	t := &Testimonial{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Message:  strings.TrimSpace(req.Message),
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.Publish(ctx, EventCreated, t)
	}
	return t, nil
}

func (s *Service) ListPublic(ctx context.Context) ([]*Testimonial, error) {
	return s.repo.ListPublic(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]*Testimonial, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	return s.repo.Approve(ctx, id)
}

func (s *Service) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*Testimonial, error) {
	return s.repo.SetHidden(ctx, id, hidden)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
