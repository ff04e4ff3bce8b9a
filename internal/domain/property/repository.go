package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines property data access interface
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context, filter ListFilter) ([]*Property, int, error)
	Update(ctx context.Context, p *Property) error
	AppendImages(ctx context.Context, id uuid.UUID, urls []string) (*Property, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListSearchCandidates returns active properties whose location contains
	// location (case-insensitive) and whose room count is at least minRooms,
	// oldest first.
	ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*Property, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates property repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const propertyColumns = `id, name, location, rooms, amenities, images, description, status, airbnb_url, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Property) error {
	query := `
		INSERT INTO properties (id, name, location, rooms, amenities, images, description, status, airbnb_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Location, p.Rooms, p.Amenities, p.Images, p.Description, p.Status, p.AirbnbURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var p Property
	err := r.db.GetContext(ctx, &p, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("property repository get: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Property, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, escapeLike(filter.Location))
		conds = append(conds, fmt.Sprintf("location ILIKE '%%' || $%d || '%%'", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM properties`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("property repository count: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM properties%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		propertyColumns, where, len(args)-1, len(args))

	var items []*Property
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("property repository list: %w", err)
	}
	return items, total, nil
}

func (r *repository) Update(ctx context.Context, p *Property) error {
	query := `
		UPDATE properties
		SET name = $2, location = $3, rooms = $4, amenities = $5, description = $6,
		    status = $7, airbnb_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Location, p.Rooms, p.Amenities, p.Description, p.Status, p.AirbnbURL,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return mapWriteDBError(err)
	}
	return nil
}

func (r *repository) AppendImages(ctx context.Context, id uuid.UUID, urls []string) (*Property, error) {
	var p Property
	query := `
		UPDATE properties SET images = images || $2::text[], updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	err := r.db.GetContext(ctx, &p, query, id, pq.StringArray(urls))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("property repository append images: %w", err)
	}
	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return mapWriteDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *repository) ListSearchCandidates(ctx context.Context, location string, minRooms int) ([]*Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE status = 'active'
		  AND location ILIKE '%' || $1 || '%'
		  AND rooms >= $2
		ORDER BY created_at, id
	`
	var items []*Property
	if err := r.db.SelectContext(ctx, &items, query, escapeLike(location), minRooms); err != nil {
		return nil, fmt.Errorf("property repository search candidates: %w", err)
	}
	return items, nil
}

// escapeLike makes user input match literally inside ILIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func mapWriteDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("property repository write: %w", err)
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %w", ErrNameTaken, err)
	case "23503":
		return fmt.Errorf("%w: %w", ErrPropertyInUse, err)
	default:
		return fmt.Errorf("property repository write: %w", err)
	}
}
