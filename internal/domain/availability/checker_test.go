package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
)

func TestHasConflict(t *testing.T) {
	room := uuid.New()
	other := uuid.New()
	store := &fakeStore{bookings: []fakeBooking{
		{RoomID: room, Status: "confirmed", Stay: stay("2025-08-01", "2025-08-05")},
		{RoomID: room, Status: "cancelled", Stay: stay("2025-09-01", "2025-09-10")},
		{RoomID: room, Status: "completed", Stay: stay("2025-10-01", "2025-10-05")},
		{RoomID: room, Status: "pending", Stay: stay("2025-11-10", "2025-11-12")},
		{RoomID: other, Status: "confirmed", Stay: stay("2025-12-01", "2025-12-31")},
	}}
	checker := NewChecker(store, store)

	tests := []struct {
		name string
		room uuid.UUID
		in   string
		out  string
		want bool
	}{
		{name: "same range as confirmed booking", room: room, in: "2025-08-01", out: "2025-08-05", want: true},
		{name: "partial overlap", room: room, in: "2025-08-04", out: "2025-08-07", want: true},
		{name: "back to back turnover", room: room, in: "2025-08-05", out: "2025-08-10", want: false},
		{name: "checkout on existing checkin", room: room, in: "2025-07-28", out: "2025-08-01", want: false},
		{name: "cancelled booking does not block", room: room, in: "2025-09-02", out: "2025-09-05", want: false},
		{name: "completed booking does not block", room: room, in: "2025-10-01", out: "2025-10-05", want: false},
		{name: "pending booking blocks", room: room, in: "2025-11-11", out: "2025-11-15", want: true},
		{name: "other room is ignored", room: room, in: "2025-12-05", out: "2025-12-06", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.HasConflict(context.Background(), ConflictQuery{RoomID: tt.room, CheckIn: date(tt.in), CheckOut: date(tt.out)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasConflictIsSymmetric(t *testing.T) {
	room := uuid.New()
	a := stay("2025-08-01", "2025-08-05")
	b := stay("2025-08-03", "2025-08-09")

	withA := NewChecker(&fakeStore{bookings: []fakeBooking{{RoomID: room, Status: "pending", Stay: a}}}, &fakeStore{})
	withB := NewChecker(&fakeStore{bookings: []fakeBooking{{RoomID: room, Status: "confirmed", Stay: b}}}, &fakeStore{})

	got, err := withA.HasConflict(context.Background(), ConflictQuery{RoomID: room, CheckIn: b.CheckIn, CheckOut: b.CheckOut})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = withB.HasConflict(context.Background(), ConflictQuery{RoomID: room, CheckIn: a.CheckIn, CheckOut: a.CheckOut})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHasConflictIsIdempotent(t *testing.T) {
	room := uuid.New()
	store := &fakeStore{bookings: []fakeBooking{{RoomID: room, Status: "confirmed", Stay: stay("2025-08-01", "2025-08-05")}}}
	checker := NewChecker(store, store)
	q := ConflictQuery{RoomID: room, CheckIn: date("2025-08-03"), CheckOut: date("2025-08-04")}

	first, err := checker.HasConflict(context.Background(), q)
	require.NoError(t, err)
	second, err := checker.HasConflict(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHasConflictValidation(t *testing.T) {
	store := &fakeStore{}
	checker := NewChecker(store, store)
	room := uuid.New()

	_, err := checker.HasConflict(context.Background(), ConflictQuery{RoomID: room, CheckIn: date("2025-08-05"), CheckOut: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = checker.HasConflict(context.Background(), ConflictQuery{RoomID: room, CheckIn: date("2025-08-06"), CheckOut: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// same calendar day with different clock times is still an empty stay
	in := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)
	_, err = checker.HasConflict(context.Background(), ConflictQuery{RoomID: room, CheckIn: in, CheckOut: in.Add(3 * time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = checker.HasConflict(context.Background(), ConflictQuery{CheckIn: date("2025-08-01"), CheckOut: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrMissingParameter)

	// an empty stay is reported ahead of a missing room
	_, err = checker.HasConflict(context.Background(), ConflictQuery{CheckIn: date("2025-08-05"), CheckOut: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.NotErrorIs(t, err, ErrMissingParameter)

	_, err = checker.HasConflict(context.Background(), ConflictQuery{CheckIn: date("2025-08-06"), CheckOut: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = checker.HasConflict(context.Background(), ConflictQuery{CheckIn: date("2025-08-05")})
	assert.ErrorIs(t, err, ErrMissingParameter)

	assert.Zero(t, store.calls, "invalid input never reaches the store")
}

func TestHasConflictStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	checker := NewChecker(store, store)
	before := testutil.ToFloat64(metrics.AvailabilityChecksTotal.WithLabelValues("room", "error"))

	_, err := checker.HasConflict(context.Background(), ConflictQuery{RoomID: uuid.New(), CheckIn: date("2025-08-01"), CheckOut: date("2025-08-05")})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AvailabilityChecksTotal.WithLabelValues("room", "error")))
}

func TestFindAvailableProperties(t *testing.T) {
	free := newProperty("Palm Court", "Lekki Phase 1", 3, property.StatusActive)
	booked := newProperty("Ocean View", "lekki", 4, property.StatusActive)
	turnover := newProperty("Admiralty", "LEKKI", 2, property.StatusActive)
	cancelledOnly := newProperty("Chevron Drive", "Lekki", 2, property.StatusActive)
	inactive := newProperty("Closed Villa", "Lekki", 5, property.StatusInactive)
	small := newProperty("Studio", "Lekki", 1, property.StatusActive)
	elsewhere := newProperty("Island Loft", "Victoria Island", 6, property.StatusActive)

	store := &fakeStore{
		properties: []*property.Property{free, booked, turnover, cancelledOnly, inactive, small, elsewhere},
		bookings: []fakeBooking{
			{RoomID: uuid.New(), PropertyID: booked.ID, Status: "pending", Stay: stay("2025-08-03", "2025-08-04")},
			{RoomID: uuid.New(), PropertyID: turnover.ID, Status: "confirmed", Stay: stay("2025-07-25", "2025-08-01")},
			{RoomID: uuid.New(), PropertyID: cancelledOnly.ID, Status: "cancelled", Stay: stay("2025-08-01", "2025-08-05")},
		},
	}
	checker := NewChecker(store, store)

	got, err := checker.FindAvailableProperties(context.Background(), SearchParams{
		Location:   "Lekki",
		CheckIn:    date("2025-08-01"),
		CheckOut:   date("2025-08-05"),
		GuestCount: 2,
	})
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Palm Court", "Admiralty", "Chevron Drive"}, names, "store order is kept")
}

func TestFindAvailablePropertiesNoCandidates(t *testing.T) {
	store := &fakeStore{}
	checker := NewChecker(store, store)

	got, err := checker.FindAvailableProperties(context.Background(), SearchParams{
		Location: "Ikoyi", CheckIn: date("2025-08-01"), CheckOut: date("2025-08-02"), GuestCount: 1,
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, store.calls, "overlap query skipped for empty candidate list")
}

func TestFindAvailablePropertiesValidation(t *testing.T) {
	valid := SearchParams{Location: "Lekki", CheckIn: date("2025-08-01"), CheckOut: date("2025-08-05"), GuestCount: 2}

	tests := []struct {
		name      string
		mutate    func(p *SearchParams)
		wantErr   error
		wantField string
	}{
		{name: "missing location", mutate: func(p *SearchParams) { p.Location = "  " }, wantErr: ErrMissingParameter, wantField: "location"},
		{name: "missing check in", mutate: func(p *SearchParams) { p.CheckIn = time.Time{} }, wantErr: ErrMissingParameter, wantField: "checkIn"},
		{name: "missing check out", mutate: func(p *SearchParams) { p.CheckOut = time.Time{} }, wantErr: ErrMissingParameter, wantField: "checkOut"},
		{name: "zero guests", mutate: func(p *SearchParams) { p.GuestCount = 0 }, wantErr: ErrMissingParameter, wantField: "guestCount"},
		{name: "negative guests", mutate: func(p *SearchParams) { p.GuestCount = -1 }, wantErr: ErrInvalidGuestCount},
		{name: "equal dates", mutate: func(p *SearchParams) { p.CheckOut = p.CheckIn }, wantErr: ErrInvalidDateRange},
		{name: "reversed dates", mutate: func(p *SearchParams) { p.CheckIn, p.CheckOut = p.CheckOut, p.CheckIn }, wantErr: ErrInvalidDateRange},
		{name: "equal dates without location", mutate: func(p *SearchParams) { p.CheckOut = p.CheckIn; p.Location = "" }, wantErr: ErrInvalidDateRange},
		{name: "equal dates without guests", mutate: func(p *SearchParams) { p.CheckOut = p.CheckIn; p.GuestCount = 0 }, wantErr: ErrInvalidDateRange},
		{name: "reversed dates with negative guests", mutate: func(p *SearchParams) {
			p.CheckIn, p.CheckOut = p.CheckOut, p.CheckIn
			p.GuestCount = -3
		}, wantErr: ErrInvalidDateRange},
		{name: "missing location beats missing check out", mutate: func(p *SearchParams) { p.Location = ""; p.CheckOut = time.Time{} }, wantErr: ErrMissingParameter, wantField: "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			checker := NewChecker(store, store)
			p := valid
			tt.mutate(&p)

			_, err := checker.FindAvailableProperties(context.Background(), p)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantField != "" {
				var missingErr *MissingParameterError
				require.ErrorAs(t, err, &missingErr)
				assert.Equal(t, tt.wantField, missingErr.Field)
			}
			assert.True(t, IsUserError(err))
			assert.Zero(t, store.calls)
		})
	}
}

func TestFindAvailablePropertiesStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("timeout")}
	checker := NewChecker(store, store)

	_, err := checker.FindAvailableProperties(context.Background(), SearchParams{
		Location: "Lekki", CheckIn: date("2025-08-01"), CheckOut: date("2025-08-05"), GuestCount: 2,
	})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, IsUserError(err))
}
