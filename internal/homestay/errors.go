package homestay

import "errors"

var (
	ErrNotFound     = errors.New("homestay: not found")
	ErrInvalidInput = errors.New("homestay: invalid input")
)
