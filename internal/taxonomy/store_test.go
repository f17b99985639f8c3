package taxonomy

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsight/internal/database"
)

func TestStoreActiveCategories(t *testing.T) {
	dsn := os.Getenv("CIVIC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CIVIC_TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.MigrateUp(dsn))
	db, err := database.Open(dsn, 2)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	suffix := uuid.NewString()
	insert := `INSERT INTO categories(name, example_issues, category_group, min_response_days, max_response_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var activeID, inactiveID, bareID int
	require.NoError(t, db.QueryRowContext(ctx, insert, "Pothole "+suffix, "holes", "Roads", 3, 14, true).Scan(&activeID))
	require.NoError(t, db.QueryRowContext(ctx, insert, "Retired "+suffix, "n/a", "Legacy", 1, 2, false).Scan(&inactiveID))
	require.NoError(t, db.QueryRowContext(ctx, insert, "Bare "+suffix, nil, nil, 1, 5, true).Scan(&bareID))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM categories WHERE id IN ($1, $2, $3)", activeID, inactiveID, bareID)
	})

	cats, err := NewStore(db).ActiveCategories(ctx)
	require.NoError(t, err)

	snap := Snapshot(cats)
	got, ok := snap.ByID(activeID)
	require.True(t, ok)
	assert.Equal(t, Category{ID: activeID, Name: "Pothole " + suffix, ExampleIssues: "holes", Group: "Roads", MinResponseDays: 3, MaxResponseDays: 14}, got)

	bare, ok := snap.ByID(bareID)
	require.True(t, ok)
	assert.Empty(t, bare.ExampleIssues)
	assert.Empty(t, bare.Group)

	_, ok = snap.ByID(inactiveID)
	assert.False(t, ok)

	for i := 1; i < len(cats); i++ {
		assert.Less(t, cats[i-1].ID, cats[i].ID)
	}
}
