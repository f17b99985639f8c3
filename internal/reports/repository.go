package reports

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"civicsight/internal/database"
)

// Repository writes report rows.
type Repository interface {
	InsertReport(ctx context.Context, r Report) (Stored, error)
	InsertLocation(ctx context.Context, reportID uuid.UUID, loc Location) error
	InsertImage(ctx context.Context, reportID uuid.UUID, imageURL string) error
}

type pgRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) InsertReport(ctx context.Context, rep Report) (Stored, error) {
	q := `
		INSERT INTO reports(
			id, citizen_id, description, category_id, ai_category_name,
			ai_description, ai_severity, ai_confidence, ai_image_relevant,
			status, ai_processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, report_number`

	args := []any{
		rep.ID, rep.CitizenID, rep.Description, rep.CategoryID, rep.AICategoryName,
		rep.AIDescription, rep.AISeverity, rep.AIConfidence, rep.AIImageRelevant,
		rep.Status, rep.AIProcessedAt,
	}
	return database.QueryOne(ctx, r.db, q, args, scanStored)
}

func (r *pgRepository) InsertLocation(ctx context.Context, reportID uuid.UUID, loc Location) error {
	cols, vals := loc.columns()
	cols = append([]string{"report_id"}, cols...)
	vals = append([]any{reportID}, vals...)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO report_locations(%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return database.ExecExpectOne(ctx, r.db, q, vals...)
}

func (r *pgRepository) InsertImage(ctx context.Context, reportID uuid.UUID, imageURL string) error {
	q := `
		INSERT INTO report_images(report_id, image_url, is_primary, ai_analyzed)
		VALUES ($1, $2, true, true)`
	return database.ExecExpectOne(ctx, r.db, q, reportID, imageURL)
}

func scanStored(s database.Scanner) (Stored, error) {
	var st Stored
	err := s.Scan(&st.ID, &st.ReportNumber)
	return st, err
}
