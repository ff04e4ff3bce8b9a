package room

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrRoomInUse        = errors.New("room has bookings and cannot be deleted")
)
