package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIsBodyTooLarge(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "max bytes error", err: &http.MaxBytesError{Limit: 1}, want: true},
		{name: "sentinel", err: ErrBodyTooLarge, want: true},
		{name: "http too large string", err: errors.New("http: request body too large"), want: true},
		{name: "other error", err: errors.New("boom"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsBodyTooLarge(tc.err))
		})
	}
}

type payload struct {
	Name string `json:"name"`
}

func decodeBody(t *testing.T, body string, limit int64) (payload, error) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var p payload
	err := DecodeJSON(c, limit, &p)
	return p, err
}

func TestDecodeJSON(t *testing.T) {
	p, err := decodeBody(t, `{"name":"pothole","extra":1}`, 1024)
	require.NoError(t, err)
	assert.Equal(t, "pothole", p.Name)

	_, err = decodeBody(t, "", 1024)
	assert.ErrorIs(t, err, ErrEmptyBody)
	assert.Equal(t, http.StatusBadRequest, DecodeStatus(err))

	_, err = decodeBody(t, `{"name":`, 1024)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = decodeBody(t, `{"name":"a"} {"name":"b"}`, 1024)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = decodeBody(t, `{"name":"`+strings.Repeat("x", 200)+`"}`, 64)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, DecodeStatus(err))
}
