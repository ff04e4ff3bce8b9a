package property

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNameTaken        = errors.New("a property with this name already exists")
	ErrPropertyInUse    = errors.New("property has bookings and cannot be deleted")
	ErrTooManyImages    = errors.New("too many images in one upload")
	ErrNoImages         = errors.New("no images provided")
	ErrInvalidImage     = errors.New("invalid image")
)
