package reports

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsight/internal/database"
)

func TestRepositoryInserts(t *testing.T) {
	dsn := os.Getenv("CIVIC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CIVIC_TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.MigrateUp(dsn))
	db, err := database.Open(dsn, 2)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	var categoryID int
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO categories(name, category_group, min_response_days, max_response_days)
		 VALUES ($1, 'Roads', 3, 14) RETURNING id`, "Pothole "+uuid.NewString()).Scan(&categoryID))

	req := validRequest()
	req.Classification.CategoryID = categoryID
	rep := newReport(uuid.New(), uuid.MustParse(citizen), req, time.Now())
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM reports WHERE id = $1", rep.ID)
		_, _ = db.ExecContext(context.Background(), "DELETE FROM categories WHERE id = $1", categoryID)
	})

	repo := NewRepository(db)
	stored, err := repo.InsertReport(ctx, rep)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, stored.ID)
	assert.Positive(t, stored.ReportNumber)

	require.NoError(t, repo.InsertLocation(ctx, stored.ID, *req.Location))
	require.NoError(t, repo.InsertImage(ctx, stored.ID, req.ImageURL))

	var source, city string
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT location_source, city FROM report_locations WHERE report_id = $1", stored.ID).Scan(&source, &city))
	assert.Equal(t, "gps", source)
	assert.Equal(t, "Cape Town", city)

	var primary, analyzed bool
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT is_primary, ai_analyzed FROM report_images WHERE report_id = $1", stored.ID).Scan(&primary, &analyzed))
	assert.True(t, primary)
	assert.True(t, analyzed)

	err = repo.InsertLocation(ctx, stored.ID, Location{})
	assert.Error(t, err, "latitude is NOT NULL")
}
