package testimonial

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines testimonial data access interface
type Repository interface {
	Create(ctx context.Context, t *Testimonial) error
	ListPublic(ctx context.Context) ([]*Testimonial, error)
	ListAll(ctx context.Context) ([]*Testimonial, error)
	Approve(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates testimonial repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const testimonialColumns = `id, name, message, image_url, approved, hidden, created_at, updated_at`

func (r *repository) Create(ctx context.Context, t *Testimonial) error {
	query := `
		INSERT INTO testimonials (id, name, message, image_url, approved, hidden)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, t.ID, t.Name, t.Message, t.ImageURL, t.Approved, t.Hidden).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("testimonial repository create: %w", err)
	}
	return nil
}

func (r *repository) ListPublic(ctx context.Context) ([]*Testimonial, error) {
	var items []*Testimonial
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE approved = TRUE AND hidden = FALSE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("testimonial repository list public: %w", err)
	}
	return items, nil
}

func (r *repository) ListAll(ctx context.Context) ([]*Testimonial, error) {
	var items []*Testimonial
	if err := r.db.SelectContext(ctx, &items, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("testimonial repository list: %w", err)
	}
	return items, nil
}

func (r *repository) Approve(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	return r.update(ctx, `UPDATE testimonials SET approved = TRUE, hidden = FALSE, updated_at = NOW() WHERE id = $1 RETURNING `+testimonialColumns, id)
}

func (r *repository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*Testimonial, error) {
	return r.update(ctx, `UPDATE testimonials SET hidden = $2, updated_at = NOW() WHERE id = $1 RETURNING `+testimonialColumns, id, hidden)
}

func (r *repository) update(ctx context.Context, query string, args ...interface{}) (*Testimonial, error) {
	var t Testimonial
	err := r.db.GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTestimonialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("testimonial repository update: %w", err)
	}
	return &t, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("testimonial repository delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
