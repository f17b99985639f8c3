package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"civicsight/internal/logging"
)

// Service stores finalized classifications. The report row is required;
// location and image rows are best effort and never roll the report back.
type Service struct {
	repo   Repository
	now    func() time.Time
	newID  func() uuid.UUID
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, now: time.Now, newID: uuid.New, logger: logger}
}

func (s *Service) Store(ctx context.Context, req StoreRequest) (Stored, error) {
	log := logging.FromContext(ctx, s.logger).With(zap.String("component", "reports"))

	citizenID, err := req.validate()
	if err != nil {
		return Stored{}, err
	}

	rep := newReport(s.newID(), citizenID, req, s.now())
	stored, err := s.repo.InsertReport(ctx, rep)
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %w", ErrInsertReport, err)
	}
	log = log.With(zap.Int64("report_number", stored.ReportNumber), zap.String("report_id", stored.ID.String()))
	log.Info("report created", zap.String("status", rep.Status))

	if err := s.repo.InsertLocation(ctx, stored.ID, *req.Location); err != nil {
		log.Warn("location insert failed", zap.Error(err))
	} else {
		log.Debug("location stored")
	}
	if err := s.repo.InsertImage(ctx, stored.ID, req.ImageURL); err != nil {
		log.Warn("image insert failed", zap.Error(err))
	} else {
		log.Debug("image stored")
	}
	return stored, nil
}
