package message

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const EventCreated = "message.created"

// EventPublisher pushes dashboard notifications.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// Service handles contact messages
type Service struct {
	repo   Repository
	events EventPublisher
}

// NewService creates message service
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Message, error) {
	m := &Message{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.Publish(ctx, EventCreated, m)
	}
	return m, nil
}

// List returns a page of messages, newest first
func (s *Service) List(ctx context.Context, page, limit int) ([]*Message, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
