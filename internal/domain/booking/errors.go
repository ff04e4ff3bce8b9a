package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomNotInProperty    = errors.New("room does not belong to property")
	ErrRoomNotBookable      = errors.New("room is not open for booking")
	ErrPropertyInactive     = errors.New("property is not accepting bookings")
	ErrRoomUnavailable      = errors.New("room is already booked for these dates")
	ErrInvalidTransition    = errors.New("booking status change not allowed")
	ErrGuestDetailsRequired = errors.New("guest name and email are required for anonymous bookings")
	ErrManualNotAllowed     = errors.New("only staff can create manual bookings")
	ErrForbidden            = errors.New("not allowed to access this booking")
)
