// Package gemini sends multimodal classification requests to the Gemini API
// and retries transient failures under a fixed backoff policy.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	temperature     float32 = 0.1
	topP            float32 = 0.95
	maxOutputTokens int32   = 8192
)

// Generator issues a single generateContent call. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Request is one multimodal classification prompt.
type Request struct {
	Prompt         string
	Image          []byte
	MIMEType       string
	ResponseSchema *genai.Schema
}

// Options configure a Client backed by the real API.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	// AttemptTimeout bounds each attempt; zero means no per-attempt bound.
	AttemptTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client performs inference with retries. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	gen            Generator
	model          string
	policy         RetryPolicy
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// New connects to the Gemini API.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := NewWithGenerator(gc.Models, opts.Model, DefaultRetryPolicy(), opts.Logger)
	c.attemptTimeout = opts.AttemptTimeout
	return c, nil
}

// NewWithGenerator builds a Client over any Generator.
func NewWithGenerator(gen Generator, model string, policy RetryPolicy, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gen:    gen,
		model:  model,
		policy: policy,
		logger: logger.With(zap.String("component", "gemini"), zap.String("model", model)),
	}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Infer sends req, retrying 429/503 responses and transport failures.
// Any other API error aborts immediately with ErrInferenceFatal; running out
// of attempts returns ErrInferenceExhausted carrying the last failure.
func (c *Client) Infer(ctx context.Context, req Request) (*genai.GenerateContentResponse, error) {
	contents := buildContents(req)
	config := buildConfig(req)

	var resp *genai.GenerateContentResponse
	err := c.policy.Run(ctx, c.logger, func(ctx context.Context, attempt int) error {
		c.logger.Info("calling model", zap.Int("attempt", attempt), zap.Int("max_attempts", c.policy.Attempts()))
		if c.attemptTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
			defer cancel()
		}
		out, err := c.gen.GenerateContent(ctx, c.model, contents, config)
		if err != nil {
			return err
		}
		resp = out
		c.logger.Info("model responded", zap.Int("attempt", attempt))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func buildContents(req Request) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.MIMEType))
	}
	return []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	temp, p := temperature, topP
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &p,
		MaxOutputTokens: maxOutputTokens,
		SafetySettings:  permissiveSafety(),
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.ResponseSchema
	}
	return cfg
}

// Reports depict real damage and hazards; default filters can suppress them.
func permissiveSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, hc := range categories {
		out = append(out, &genai.SafetySetting{
			Category:  hc,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return out
}
