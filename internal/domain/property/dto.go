package property

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Amenities accepts either a JSON array or a comma-separated string.
type Amenities []string

func (a *Amenities) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = cleanAmenities(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = cleanAmenities(strings.Split(raw, ","))
	return nil
}

func cleanAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CreatePropertyRequest for POST /properties
type CreatePropertyRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=200"`
	Location    string    `json:"location" validate:"required,min=2,max=255"`
	Rooms       int       `json:"rooms" validate:"required,gte=1"`
	Amenities   Amenities `json:"amenities"`
	Description string    `json:"description" validate:"omitempty,max=1000"`
	Status      string    `json:"status" validate:"omitempty,property_status"`
	AirbnbURL   string    `json:"airbnb_url" validate:"omitempty,url"`
}

// UpdatePropertyRequest for PUT /properties/{id} (full replace) and
// PATCH /properties/{id} (nil fields untouched)
type UpdatePropertyRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=3,max=200"`
	Location    *string    `json:"location" validate:"omitempty,min=2,max=255"`
	Rooms       *int       `json:"rooms" validate:"omitempty,gte=1"`
	Amenities   *Amenities `json:"amenities"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status" validate:"omitempty,property_status"`
	AirbnbURL   *string    `json:"airbnb_url" validate:"omitempty,url"`
}

// ListFilter for GET /properties
type ListFilter struct {
	Status   Status
	Location string
	Page     int
	Limit    int
}

// PropertyResponse is the public representation of a property
type PropertyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Rooms       int       `json:"rooms"`
	Amenities   []string  `json:"amenities"`
	Images      []string  `json:"images"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AirbnbURL   string    `json:"airbnb_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResponseFromEntity converts entity to response
func ResponseFromEntity(p *Property) *PropertyResponse {
	amenities := []string(p.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return &PropertyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Location:    p.Location,
		Rooms:       p.Rooms,
		Amenities:   amenities,
		Images:      images,
		Description: p.Description,
		Status:      string(p.Status),
		AirbnbURL:   p.AirbnbURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ResponsesFromEntities converts a slice, never returning nil
func ResponsesFromEntities(items []*Property) []*PropertyResponse {
	out := make([]*PropertyResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ResponseFromEntity(p))
	}
	return out
}
