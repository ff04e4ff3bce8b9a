package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func newBooking() *Booking {
	price := 100.0
	return &Booking{
		ID:            uuid.New(),
		PropertyID:    uuid.New(),
		RoomID:        uuid.New(),
		GuestName:     "Ada",
		GuestEmail:    "ada@example.com",
		CheckIn:       time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		GuestCount:    2,
		TotalPrice:    &price,
	}
}

func TestCreateIfAvailableInsertsUnderLock(t *testing.T) {
	repo, mock := newMockRepo(t)
	b := newBooking()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs(b.RoomID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(b.RoomID, sqlmock.AnyArg(), b.CheckIn, b.CheckOut).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateIfAvailable(context.Background(), b))
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailableRejectsOverlap(t *testing.T) {
	repo, mock := newMockRepo(t)
	b := newBooking()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`pg_advisory_xact_lock`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.CreateIfAvailable(context.Background(), b)
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailableMapsExclusionViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	b := newBooking()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`pg_advisory_xact_lock`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	err := repo.CreateIfAvailable(context.Background(), b)
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusDetectsConcurrentChange(t *testing.T) {
	repo, mock := newMockRepo(t)
	b := newBooking()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND status = $2`)).
		WithArgs(b.ID, StatusPending, StatusConfirmed, PaymentPending).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.UpdateStatus(context.Background(), b, StatusConfirmed, PaymentPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, b.Status)
}

func TestListBuildsFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	propertyID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bookings WHERE status = $1 AND property_id = $2`)).
		WithArgs(StatusConfirmed, propertyID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`)).
		WithArgs(StatusConfirmed, propertyID, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(context.Background(), ListFilter{Status: StatusConfirmed, PropertyID: propertyID, Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapWriteDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion", err: &pq.Error{Code: "23P01"}, want: ErrRoomUnavailable},
		{name: "missing property", err: &pq.Error{Code: "23503", Constraint: "bookings_property_id_fkey"}, want: ErrPropertyNotFound},
		{name: "missing room", err: &pq.Error{Code: "23503", Constraint: "bookings_room_id_fkey"}, want: ErrRoomNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteDBError(tt.err), tt.want)
		})
	}
	assert.False(t, errors.Is(mapWriteDBError(errors.New("boom")), ErrRoomUnavailable))
}

func TestUpdateStatusMapsExclusionViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	b := newBooking()
	b.Status, b.PaymentStatus = StatusPending, PaymentPending

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(b.ID, StatusPending, StatusConfirmed, PaymentPending).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})

	err := repo.UpdateStatus(context.Background(), b, StatusConfirmed, PaymentPending)
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Equal(t, StatusPending, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
