package taxonomy

import "errors"

var (
	// ErrUnavailable means the category store could not be queried.
	ErrUnavailable = errors.New("taxonomy unavailable")
	// ErrEmpty means the store holds no active categories.
	ErrEmpty = errors.New("no active categories found")
)
