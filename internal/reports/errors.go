package reports

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest = errors.New("invalid report request")
	ErrInsertReport   = errors.New("failed to insert report")
)

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Is(target error) bool { return target == ErrInvalidRequest }

// MapHTTPStatus maps report errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
