package taxonomy

import (
	"context"
	"database/sql"

	"civicsight/internal/database"
)

// Store reads the category table.
type Store interface {
	// ActiveCategories returns categories with is_active = true ordered by id.
	ActiveCategories(ctx context.Context) ([]Category, error)
}

const activeCategoriesQuery = `
	SELECT id, name, COALESCE(example_issues, ''), COALESCE(category_group, ''),
	       min_response_days, max_response_days
	FROM categories
	WHERE is_active = true
	ORDER BY id`

type pgStore struct {
	db database.Querier
}

// NewStore returns a Store backed by PostgreSQL.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) ActiveCategories(ctx context.Context) ([]Category, error) {
	return database.QueryMany(ctx, s.db, activeCategoriesQuery, nil, scanCategory)
}

func scanCategory(sc database.Scanner) (Category, error) {
	var c Category
	err := sc.Scan(&c.ID, &c.Name, &c.ExampleIssues, &c.Group, &c.MinResponseDays, &c.MaxResponseDays)
	return c, err
}
