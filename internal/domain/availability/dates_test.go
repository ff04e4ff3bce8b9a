package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", in: "2025-08-01", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 keeps the calendar date", in: "2025-08-01T23:30:00+01:00", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding spaces", in: " 2025-08-05 ", want: time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "next friday", wantErr: true},
		{name: "impossible day", in: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestDateRangeOverlaps(t *testing.T) {
	base := stay("2025-08-01", "2025-08-05")

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{name: "identical", other: stay("2025-08-01", "2025-08-05"), want: true},
		{name: "inside", other: stay("2025-08-02", "2025-08-03"), want: true},
		{name: "covering", other: stay("2025-07-30", "2025-08-10"), want: true},
		{name: "tail overlap", other: stay("2025-08-04", "2025-08-06"), want: true},
		{name: "head overlap", other: stay("2025-07-30", "2025-08-02"), want: true},
		{name: "back to back after", other: stay("2025-08-05", "2025-08-10"), want: false},
		{name: "back to back before", other: stay("2025-07-28", "2025-08-01"), want: false},
		{name: "disjoint", other: stay("2025-09-01", "2025-09-10"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap is symmetric")
		})
	}
}

func TestDateRangeNights(t *testing.T) {
	assert.Equal(t, 4, stay("2025-08-01", "2025-08-05").Nights())
	// spans the March DST change in most zones; UTC dates keep it exact
	assert.Equal(t, 31, stay("2025-03-01", "2025-04-01").Nights())
}

func TestDateRangeValidate(t *testing.T) {
	assert.NoError(t, stay("2025-08-01", "2025-08-02").Validate())
	assert.ErrorIs(t, stay("2025-08-01", "2025-08-01").Validate(), ErrInvalidDateRange)
	assert.ErrorIs(t, stay("2025-08-05", "2025-08-01").Validate(), ErrInvalidDateRange)

	err := DateRange{CheckOut: date("2025-08-01")}.Validate()
	var missingErr *MissingParameterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "checkIn", missingErr.Field)
	assert.ErrorIs(t, err, ErrMissingParameter)
}
