// Package classify turns a citizen photo and optional description into a
// normalized classification against the active category taxonomy.
package classify

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"civicsight/internal/gemini"
	"civicsight/internal/logging"
	"civicsight/internal/taxonomy"
)

const rawLogLimit = 400

// TaxonomySource returns a fresh category snapshot per call.
type TaxonomySource interface {
	Load(ctx context.Context) (taxonomy.Snapshot, error)
}

// ImageFetcher downloads the submitted photo.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (Image, error)
}

// Inferencer sends one prompt and image to the model, retrying internally.
type Inferencer interface {
	Infer(ctx context.Context, req gemini.Request) (*genai.GenerateContentResponse, error)
}

// Pipeline runs taxonomy load, prompt build, image fetch, inference,
// extraction and validation in order. It keeps no state between requests.
type Pipeline struct {
	taxonomy TaxonomySource
	images   ImageFetcher
	model    Inferencer
	logger   *zap.Logger
}

func NewPipeline(tax TaxonomySource, images ImageFetcher, model Inferencer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{taxonomy: tax, images: images, model: model, logger: logger}
}

// Classify returns a validated Result or the first stage error. No partial
// result is ever returned.
func (p *Pipeline) Classify(ctx context.Context, req Request) (Result, error) {
	log := logging.FromContext(ctx, p.logger).With(zap.String("component", "classify"))

	imageURL, err := checkImageURL(req.ImageURL)
	if err != nil {
		return Result{}, err
	}

	cats, err := p.taxonomy.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	log.Info("fetched active categories", zap.Int("count", len(cats)))

	var description string
	if req.Description != nil {
		description = *req.Description
	}
	prompt := BuildPrompt(cats, description)

	log.Info("fetching image", zap.String("image_url", imageURL))
	img, err := p.images.Fetch(ctx, imageURL)
	if err != nil {
		return Result{}, err
	}
	log.Info("image ready", zap.Int("bytes", len(img.Data)), zap.String("mime_type", img.MIMEType))

	resp, err := p.model.Infer(ctx, gemini.Request{
		Prompt:         prompt,
		Image:          img.Data,
		MIMEType:       img.MIMEType,
		ResponseSchema: responseSchema(),
	})
	if err != nil {
		return Result{}, err
	}

	text, err := Extract(resp)
	if err != nil {
		return Result{}, err
	}
	log.Debug("model raw response", zap.String("prompt_version", promptVersion), zap.String("text", truncate(text, rawLogLimit)))

	fields, err := decodeObject(text)
	if err != nil {
		log.Warn("model output is not a JSON object", zap.String("text", truncate(text, excerptLimit)))
		return Result{}, err
	}

	res, err := Validate(fields, cats)
	if err != nil {
		return Result{}, err
	}

	if res.IsValidReport {
		log.Info("valid report",
			zap.String("category", res.CategoryName),
			zap.Int("severity", res.Severity),
			zap.Float64("confidence", res.Confidence),
			zap.String("priority", string(res.SuggestedPriority)),
			zap.Int("due_date_days", res.DueDateDays))
	} else {
		log.Info("rejected report",
			zap.String("reason", *res.RejectionReason),
			zap.String("ai_description", res.AIDescription))
	}
	return res, nil
}

func checkImageURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &requestError{msg: "image_url is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &requestError{msg: "image_url must be an absolute http or https URL"}
	}
	return raw, nil
}
