package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
)

const queryTimeout = 5 * time.Second

// Repository defines booking data access interface
type Repository interface {
	// CreateIfAvailable inserts b unless an active booking on the same room
	// overlaps its dates. The check and the insert run in one transaction
	// serialized per room; returns ErrRoomUnavailable on conflict.
	CreateIfAvailable(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, int, error)
	// UpdateStatus moves b from its current status to the given one.
	// Returns ErrInvalidTransition if the stored status changed meanwhile.
	UpdateStatus(ctx context.Context, b *Booking, to Status, payment PaymentStatus) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, guest_id, guest_name, guest_email, property_id, room_id, check_in, check_out,
	status, payment_status, guest_count, total_price, special_request, created_at, updated_at`

func (r *repository) CreateIfAvailable(ctx context.Context, b *Booking) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("booking repository begin tx: %w", err)
	}
	defer tx.Rollback()

	// serializes concurrent bookings for the room until commit
	if _, err := tx.ExecContext(ctx2, `SELECT pg_advisory_xact_lock(hashtext($1))`, b.RoomID.String()); err != nil {
		return fmt.Errorf("booking repository lock room: %w", err)
	}

	var taken bool
	err = tx.GetContext(ctx2, &taken, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status = ANY($2)
			  AND check_in < $4
			  AND $3 < check_out
		)
	`, b.RoomID, pq.Array(availability.ActiveStatuses), b.CheckIn, b.CheckOut)
	if err != nil {
		return fmt.Errorf("booking repository overlap check: %w", err)
	}
	if taken {
		return ErrRoomUnavailable
	}

	err = tx.QueryRowxContext(ctx2, `
		INSERT INTO bookings (id, guest_id, guest_name, guest_email, property_id, room_id, check_in, check_out,
			status, payment_status, guest_count, total_price, special_request)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`,
		b.ID, b.GuestID, b.GuestName, b.GuestEmail, b.PropertyID, b.RoomID, b.CheckIn, b.CheckOut,
		b.Status, b.PaymentStatus, b.GuestCount, b.TotalPrice, b.SpecialRequest,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapWriteDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking repository get: %w", err)
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Booking, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PropertyID != uuid.Nil {
		args = append(args, filter.PropertyID)
		where = append(where, fmt.Sprintf("property_id = $%d", len(args)))
	}
	if filter.GuestID != uuid.Nil {
		args = append(args, filter.GuestID)
		where = append(where, fmt.Sprintf("guest_id = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("booking repository count: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		bookingColumns, clause, len(args)-1, len(args))

	var items []*Booking
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("booking repository list: %w", err)
	}
	return items, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, b *Booking, to Status, payment PaymentStatus) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE bookings
		SET status = $3, payment_status = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING updated_at
	`, b.ID, b.Status, to, payment).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidTransition
	}
	if err != nil {
		return mapWriteDBError(err)
	}
	b.Status = to
	b.PaymentStatus = payment
	return nil
}

func mapWriteDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("booking repository write: %w", err)
	}
	switch pqErr.Code {
	case "23P01":
		// bookings_no_overlap
		return fmt.Errorf("%w: %w", ErrRoomUnavailable, err)
	case "23503":
		switch pqErr.Constraint {
		case "bookings_property_id_fkey":
			return fmt.Errorf("%w: %w", ErrPropertyNotFound, err)
		case "bookings_room_id_fkey":
			return fmt.Errorf("%w: %w", ErrRoomNotFound, err)
		}
	}
	return fmt.Errorf("booking repository write: %w", err)
}
