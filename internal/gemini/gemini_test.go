package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildContents(t *testing.T) {
	contents := buildContents(Request{Prompt: "describe", Image: []byte{0xff, 0xd8}, MIMEType: "image/png"})
	require.Len(t, contents, 1)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "describe", contents[0].Parts[0].Text)
	require.NotNil(t, contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8}, contents[0].Parts[1].InlineData.Data)

	textOnly := buildContents(Request{Prompt: "describe"})
	assert.Len(t, textOnly[0].Parts, 1)
}

func TestBuildConfig(t *testing.T) {
	schema := &genai.Schema{Type: genai.TypeObject}
	cfg := buildConfig(Request{ResponseSchema: schema})

	require.NotNil(t, cfg.Temperature)
	require.NotNil(t, cfg.TopP)
	assert.InDelta(t, 0.1, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 0.95, *cfg.TopP, 1e-6)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Same(t, schema, cfg.ResponseSchema)

	require.Len(t, cfg.SafetySettings, 4)
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockNone, s.Threshold)
	}

	plain := buildConfig(Request{})
	assert.Empty(t, plain.ResponseMIMEType)
	assert.Nil(t, plain.ResponseSchema)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Options{Model: "gemini-test"})
	assert.EqualError(t, err, "GEMINI_API_KEY not set")
}

func newAPIServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.Copy(io.Discard, r.Body)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newAPIClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(context.Background(), Options{
		APIKey:     "test-key",
		Model:      "gemini-test",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestInferAgainstAPI_Success(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"category_id\":3}"}]}}]}`)

	resp, err := newAPIClient(t, srv).Infer(context.Background(), Request{Prompt: "classify"})
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, `{"category_id":3}`, resp.Text())
}

func TestInferAgainstAPI_Unauthorized(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusUnauthorized,
		`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`)

	_, err := newAPIClient(t, srv).Infer(context.Background(), Request{Prompt: "classify"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInferenceFatal)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1, *calls)
}
