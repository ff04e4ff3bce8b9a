package property

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Property
	order []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*Property{}}
}

func (f *fakeRepo) Create(ctx context.Context, p *Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Name == p.Name {
			return ErrNameTaken
		}
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	f.items[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Property, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Property
	for _, id := range f.order {
		p := f.items[id]
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return ErrPropertyNotFound
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeRepo) AppendImages(ctx context.Context, id uuid.UUID, urls []string) (*Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	p.Images = append(pq.StringArray{}, append(p.Images, urls...)...)
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrPropertyNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Property
	for _, id := range f.order {
		p, ok := f.items[id]
		if !ok || !p.IsActive() || p.Rooms < minRooms {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Location), strings.ToLower(location)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.calls++ }
