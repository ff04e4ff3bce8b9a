package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines room data access interface
type Repository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates room repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const roomColumns = `id, property_id, room_type, price, available, description, amenities, created_at, updated_at`

func (r *repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, property_id, room_type, price, available, description, amenities)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		room.ID, room.PropertyID, room.RoomType, room.Price, room.Available, room.Description, room.Amenities,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return mapWriteDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("room repository get: %w", err)
	}
	return &room, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Room, error) {
	var rooms []*Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE property_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rooms, query, propertyID); err != nil {
		return nil, fmt.Errorf("room repository list: %w", err)
	}
	return rooms, nil
}

func (r *repository) Update(ctx context.Context, room *Room) error {
	query := `
		UPDATE rooms
		SET room_type = $2, price = $3, available = $4, description = $5, amenities = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		room.ID, room.RoomType, room.Price, room.Available, room.Description, room.Amenities,
	).Scan(&room.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return mapWriteDBError(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return mapWriteDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func mapWriteDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("room repository write: %w", err)
	}
	if pqErr.Code == "23503" {
		if pqErr.Constraint == "rooms_property_id_fkey" {
			return fmt.Errorf("%w: %w", ErrPropertyNotFound, err)
		}
		return fmt.Errorf("%w: %w", ErrRoomInUse, err)
	}
	return fmt.Errorf("room repository write: %w", err)
}
