package availability

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC3339 timestamp and returns
// midnight UTC of that date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return Day(t), nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is the half-open stay [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether two stays share at least one night.
// A stay ending on the day another begins does not overlap it.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// Nights is the number of nights in the stay.
func (r DateRange) Nights() int {
	return int(Day(r.CheckOut).Sub(Day(r.CheckIn)).Hours() / 24)
}

// Validate checks that both ends are set and ordered.
func (r DateRange) Validate() error {
	if r.CheckIn.IsZero() {
		return missing("checkIn")
	}
	if r.CheckOut.IsZero() {
		return missing("checkOut")
	}
	if r.reversed() {
		return ErrInvalidDateRange
	}
	return nil
}

// reversed reports a stay whose dates are both set but whose check-out
// calendar day is not after its check-in day.
func (r DateRange) reversed() bool {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return false
	}
	return !Day(r.CheckOut).After(Day(r.CheckIn))
}

func (r DateRange) normalized() DateRange {
	return DateRange{CheckIn: Day(r.CheckIn), CheckOut: Day(r.CheckOut)}
}

// ConflictQuery asks whether a room is taken for a stay.
type ConflictQuery struct {
	RoomID   uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
}

// SearchParams selects properties free for a stay.
// A GuestCount of zero is treated as absent.
type SearchParams struct {
	Location   string
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
}

// validate reports an empty or inverted stay before any other problem.
func (p SearchParams) validate() error {
	stay := DateRange{CheckIn: p.CheckIn, CheckOut: p.CheckOut}
	if stay.reversed() {
		return ErrInvalidDateRange
	}
	if strings.TrimSpace(p.Location) == "" {
		return missing("location")
	}
	if err := stay.Validate(); err != nil {
		return err
	}
	if p.GuestCount == 0 {
		return missing("guestCount")
	}
	if p.GuestCount < 0 {
		return ErrInvalidGuestCount
	}
	return nil
}
