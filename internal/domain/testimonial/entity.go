package testimonial

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is a guest review shown on the public site once approved.
type Testimonial struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Message   string    `db:"message" json:"message"`
	ImageURL  string    `db:"image_url" json:"image_url,omitempty"`
	Approved  bool      `db:"approved" json:"approved"`
	Hidden    bool      `db:"hidden" json:"hidden"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsPublic reports whether the testimonial is visible to visitors
func (t *Testimonial) IsPublic() bool {
	return t.Approved && !t.Hidden
}

// CreateRequest for POST /testimonials
type CreateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Message  string `json:"message" validate:"required,min=20,max=1000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// VisibilityRequest for PATCH /testimonials/{id}/visibility
type VisibilityRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}
