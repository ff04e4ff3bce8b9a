package property

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/gracecourt/gracecourt-api/internal/pkg/imaging"
	"github.com/gracecourt/gracecourt-api/internal/pkg/storage"
)

// MaxImagesPerUpload caps a single multipart upload.
const MaxImagesPerUpload = 10

// SearchInvalidator drops cached availability results after listing changes.
type SearchInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service handles property business logic
type Service struct {
	repo      Repository
	storage   storage.Storage
	processor *imaging.Processor
	search    SearchInvalidator
}

// NewService creates property service
func NewService(repo Repository, st storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:      repo,
		storage:   st,
		processor: processor,
	}
}

// SetSearchInvalidator wires the availability cache (optional)
func (s *Service) SetSearchInvalidator(inv SearchInvalidator) {
	s.search = inv
}

func (s *Service) invalidateSearch(ctx context.Context) {
	if s.search != nil {
		s.search.Invalidate(ctx)
	}
}

// Create creates a new property listing
func (s *Service) Create(ctx context.Context, req *CreatePropertyRequest) (*Property, error) {
	p := &Property{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Rooms:       req.Rooms,
		Amenities:   pq.StringArray(req.Amenities),
		Images:      pq.StringArray{},
		Description: strings.TrimSpace(req.Description),
		Status:      StatusActive,
		AirbnbURL:   req.AirbnbURL,
	}
	if p.Amenities == nil {
		p.Amenities = pq.StringArray{}
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if req.Status != "" {
		p.Status = Status(req.Status)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateSearch(ctx)
	return p, nil
}

// GetByID returns a property or ErrPropertyNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// List returns a page of properties
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Property, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Replace overwrites every editable field (PUT)
func (s *Service) Replace(ctx context.Context, id uuid.UUID, req *CreatePropertyRequest) (*Property, error) {
	amenities := req.Amenities
	status := req.Status
	if status == "" {
		status = string(StatusActive)
	}
	return s.Patch(ctx, id, &UpdatePropertyRequest{
		Name:        &req.Name,
		Location:    &req.Location,
		Rooms:       &req.Rooms,
		Amenities:   &amenities,
		Description: &req.Description,
		Status:      &status,
		AirbnbURL:   &req.AirbnbURL,
	})
}

// Patch applies only the fields present in req (PATCH)
func (s *Service) Patch(ctx context.Context, id uuid.UUID, req *UpdatePropertyRequest) (*Property, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.Rooms != nil {
		p.Rooms = *req.Rooms
	}
	if req.Amenities != nil {
		p.Amenities = pq.StringArray(*req.Amenities)
		if p.Amenities == nil {
			p.Amenities = pq.StringArray{}
		}
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
		if p.Description == "" {
			p.Description = DefaultDescription
		}
	}
	if req.Status != nil {
		p.Status = Status(*req.Status)
	}
	if req.AirbnbURL != nil {
		p.AirbnbURL = *req.AirbnbURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateSearch(ctx)
	return p, nil
}

// Delete removes the listing, then its stored images on a best-effort basis
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSearch(ctx)

	for _, url := range p.Images {
		key, ok := storage.KeyFromURL(s.storage, url)
		if !ok {
			continue
		}
		original, thumb := thumbnailPair(key)
		for _, k := range []string{original, thumb} {
			if err := s.storage.Delete(ctx, k); err != nil {
				log.Warn().Err(err).Str("property_id", id.String()).Str("key", k).Msg("failed to delete property image")
			}
		}
	}
	return nil
}

// thumbnailPair maps an original image key to itself and its thumbnail key.
func thumbnailPair(key string) (string, string) {
	dot := strings.LastIndex(key, ".")
	if dot <= strings.LastIndex(key, "/") {
		return key, key + "_thumb"
	}
	return key, key[:dot] + "_thumb" + key[dot:]
}

// UploadImages validates, resizes and stores each image, then appends the
// original URLs to the listing.
func (s *Service) UploadImages(ctx context.Context, id uuid.UUID, files []io.Reader) (*Property, error) {
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	if len(files) > MaxImagesPerUpload {
		return nil, ErrTooManyImages
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	stored := make([]string, 0, 2*len(files))
	cleanup := func() {
		for _, k := range stored {
			_ = s.storage.Delete(context.Background(), k)
		}
	}

	for i, f := range files {
		buf, _, err := storage.ValidateAndBuffer(f, storage.CategoryPropertyImage)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: file %d: %w", ErrInvalidImage, i+1, err)
		}
		img, err := s.processor.Process(buf)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: file %d: %w", ErrInvalidImage, i+1, err)
		}

		originalKey, thumbKey := imaging.GeneratePaths("properties/"+id.String(), uuid.NewString(), img.Extension)
		if err := s.storage.Put(ctx, originalKey, bytes.NewReader(img.Original), img.ContentType); err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, originalKey)
		if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(img.Thumbnail), img.ContentType); err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, thumbKey)
		urls = append(urls, s.storage.GetURL(originalKey))
	}

	p, err := s.repo.AppendImages(ctx, id, urls)
	if err != nil {
		cleanup()
		return nil, err
	}
	return p, nil
}
