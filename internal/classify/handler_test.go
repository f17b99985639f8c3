package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsight/internal/gemini"
)

type classifierFunc func(ctx context.Context, req Request) (Result, error)

func (f classifierFunc) Classify(ctx context.Context, req Request) (Result, error) { return f(ctx, req) }

func serveClassify(t *testing.T, svc Classifier, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/classify", Handler(svc))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Success(t *testing.T) {
	var got Request
	svc := classifierFunc(func(_ context.Context, req Request) (Result, error) {
		got = req
		return Result{CategoryID: 1, CategoryName: "Pothole", Severity: 4, SuggestedPriority: PriorityHigh, IsValidReport: true, ImageMatchesDescription: true}, nil
	})

	w := serveClassify(t, svc, `{"image_url":"https://cdn.example/p.jpg","description":"hole"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example/p.jpg", got.ImageURL)
	require.NotNil(t, got.Description)
	assert.Equal(t, "hole", *got.Description)

	var body struct {
		Success        bool           `json:"success"`
		Classification map[string]any `json:"classification"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Pothole", body.Classification["category_name"])
	assert.Equal(t, "high", body.Classification["suggested_priority"])
	assert.Contains(t, body.Classification, "rejection_reason")
	assert.Nil(t, body.Classification["rejection_reason"])
}

func TestHandler_MissingImageURL(t *testing.T) {
	tax, imgs, model := newFixture()
	w := serveClassify(t, NewPipeline(tax, imgs, model, nil), `{"description":"pothole"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"image_url is required"}`, w.Body.String())
}

func TestHandler_BadBody(t *testing.T) {
	svc := classifierFunc(func(context.Context, Request) (Result, error) {
		t.Fatal("classifier must not be called")
		return Result{}, nil
	})
	for _, body := range []string{"", "{", `{"image_url":"a"} trailing`} {
		w := serveClassify(t, svc, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}

	w := serveClassify(t, svc, `{"image_url":"`+strings.Repeat("x", 70*1024)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandler_PipelineFailure(t *testing.T) {
	svc := classifierFunc(func(context.Context, Request) (Result, error) {
		return Result{}, fmt.Errorf("%w after 4 attempts: 503: overloaded", gemini.ErrInferenceExhausted)
	})
	w := serveClassify(t, svc, `{"image_url":"https://cdn.example/p.jpg"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"inference unavailable after 4 attempts: 503: overloaded"}`, w.Body.String())
}
