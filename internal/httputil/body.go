// Package httputil holds the HTTP plumbing shared by the service handlers:
// JSON body decoding, response envelopes and middleware.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrInvalidJSON  = errors.New("invalid JSON body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// IsBodyTooLarge reports whether the error indicates the request body exceeded MaxBytesReader.
func IsBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || errors.Is(err, ErrBodyTooLarge) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// DecodeJSON reads exactly one JSON value of at most limit bytes into dst.
func DecodeJSON(c *gin.Context, limit int64, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case IsBodyTooLarge(err):
			return ErrBodyTooLarge
		default:
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if IsBodyTooLarge(err) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return nil
}

// DecodeStatus maps a DecodeJSON error to 413 or 400.
func DecodeStatus(err error) int {
	if IsBodyTooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
