package availability

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrInvalidGuestCount = errors.New("guest count must be at least 1")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStoreUnavailable  = errors.New("availability store unavailable")
)

// MissingParameterError names the absent field. It matches ErrMissingParameter.
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingParameter.Error(), e.Field)
}

func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

func missing(field string) error {
	return &MissingParameterError{Field: field}
}

func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
