package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrInferenceExhausted means every attempt failed with a transient error.
	ErrInferenceExhausted = errors.New("inference unavailable")
	// ErrInferenceFatal means the API rejected the request or the caller gave up.
	ErrInferenceFatal = errors.New("inference failed")
)

const errorDetailLimit = 200

// RetryPolicy is the attempt schedule. Delays[i] is waited before attempt
// i+1, so the first entry is normally zero.
type RetryPolicy struct {
	Delays []time.Duration
	// Sleep pauses between attempts; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy allows 4 attempts waiting 0s, 2s, 4s and 8s before each.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delays: []time.Duration{0, 2 * time.Second, 4 * time.Second, 8 * time.Second},
	}
}

// Attempts is the total number of calls the policy allows.
func (p RetryPolicy) Attempts() int {
	return len(p.Delays)
}

// Retryable reports whether an HTTP status from the model API is transient.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

type transition int

const (
	transitionDone transition = iota
	transitionRetry
	transitionAbort
)

// next decides the transition after one attempt. Caller cancellation and
// non-retryable statuses abort; retryable statuses and transport failures retry.
func next(ctx context.Context, err error) transition {
	if err == nil {
		return transitionDone
	}
	if ctx.Err() != nil {
		return transitionAbort
	}
	if code, _, ok := apiStatus(err); ok {
		if Retryable(code) {
			return transitionRetry
		}
		return transitionAbort
	}
	return transitionRetry
}

// Run calls fn until it succeeds, fails fatally, or the schedule is used up.
// The only state carried between attempts is the attempt number and the last error.
func (p RetryPolicy) Run(ctx context.Context, logger *zap.Logger, fn func(ctx context.Context, attempt int) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for i, delay := range p.Delays {
		attempt := i + 1
		if delay > 0 {
			logger.Info("waiting before retry", zap.Int("attempt", attempt), zap.Duration("delay", delay))
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("%w: %w", ErrInferenceFatal, err)
			}
		}

		err := fn(ctx, attempt)
		switch next(ctx, err) {
		case transitionDone:
			return nil
		case transitionAbort:
			return fatal(ctx, err)
		}

		lastErr = err
		logger.Warn("attempt failed",
			zap.Int("attempt", attempt),
			zap.Bool("will_retry", attempt < len(p.Delays)),
			zap.String("error", describe(err)))
	}
	if lastErr == nil {
		return fmt.Errorf("%w: no attempts configured", ErrInferenceExhausted)
	}
	return fmt.Errorf("%w after %d attempts: %s", ErrInferenceExhausted, len(p.Delays), describe(lastErr))
}

func fatal(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrInferenceFatal, ctxErr)
	}
	if code, msg, ok := apiStatus(err); ok {
		return fmt.Errorf("%w: model API error (%d): %s", ErrInferenceFatal, code, truncate(msg, errorDetailLimit))
	}
	return fmt.Errorf("%w: %w", ErrInferenceFatal, err)
}

func describe(err error) string {
	if code, msg, ok := apiStatus(err); ok {
		return fmt.Sprintf("%d: %s", code, truncate(msg, errorDetailLimit))
	}
	return err.Error()
}

// apiStatus finds a genai.APIError anywhere in err's chain.
func apiStatus(err error) (code int, msg string, ok bool) {
	for err != nil {
		switch v := any(err).(type) {
		case genai.APIError:
			return v.Code, v.Message, true
		case *genai.APIError:
			if v != nil {
				return v.Code, v.Message, true
			}
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if code, msg, ok := apiStatus(inner); ok {
					return code, msg, true
				}
			}
			return 0, "", false
		default:
			return 0, "", false
		}
	}
	return 0, "", false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
