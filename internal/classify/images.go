package classify

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const defaultImageMIMEType = "image/jpeg"

// Image is a fetched report photo.
type Image struct {
	MIMEType string
	Data     []byte
}

// HTTPImageFetcher downloads report photos with a plain GET.
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64) *HTTPImageFetcher {
	return &HTTPImageFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch returns the image body and its content type, defaulting to image/jpeg.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, rawURL string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	req.Header.Set("User-Agent", "civicsight/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("%w: %s", ErrImageFetch, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("%w: read body: %w", ErrImageFetch, err)
	}
	if int64(len(data)) > f.maxBytes {
		return Image{}, fmt.Errorf("%w: image exceeds limit of %d bytes", ErrImageFetch, f.maxBytes)
	}
	return Image{MIMEType: imageMIMEType(resp.Header.Get("Content-Type")), Data: data}, nil
}

func imageMIMEType(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return defaultImageMIMEType
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		return defaultImageMIMEType
	}
	return mediaType
}
