// Package taxonomy loads the active municipal issue categories and provides
// the per-request snapshot used for prompt construction and validation.
package taxonomy

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Loader fetches a fresh Snapshot for every request. Nothing is cached.
type Loader struct {
	store  Store
	logger *zap.Logger
}

func NewLoader(store Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger.With(zap.String("component", "taxonomy"))}
}

// Load returns the active categories ordered by id. Rows violating
// min_response_days <= max_response_days are skipped with a warning.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	cats, err := l.store.ActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	out := make(Snapshot, 0, len(cats))
	for _, c := range cats {
		if c.MinResponseDays > c.MaxResponseDays {
			l.logger.Warn("skipping category with inverted response window",
				zap.Int("category_id", c.ID),
				zap.Int("min_response_days", c.MinResponseDays),
				zap.Int("max_response_days", c.MaxResponseDays))
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	l.logger.Debug("fetched active categories", zap.Int("count", len(out)))
	return out, nil
}
