package testimonial

import "errors"

var ErrTestimonialNotFound = errors.New("testimonial not found")
