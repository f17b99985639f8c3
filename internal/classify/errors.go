package classify

import (
	"errors"
	"net/http"
)

// Pipeline errors. Taxonomy and inference failures come wrapped from their
// own packages; every kind here is fatal for the request.
var (
	ErrInvalidRequest   = errors.New("invalid classification request")
	ErrImageFetch       = errors.New("failed to fetch image")
	ErrEmptyModelOutput = errors.New("model returned empty response")
	ErrMalformedJSON    = errors.New("failed to parse model JSON")
	ErrInvalidCategory  = errors.New("model returned invalid category")
)

// requestError carries a client-facing message and matches ErrInvalidRequest.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Is(target error) bool { return target == ErrInvalidRequest }

// MapHTTPStatus maps request-shape errors to 400 and every pipeline failure to 500.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
