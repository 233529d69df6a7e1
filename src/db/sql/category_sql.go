package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spindon-server/src/db"
	"spindon-server/src/models"
)

var ErrCategoryNotFound = errors.New("category not found")

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, name, color string, icon *string) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, color, icon, is_default, created_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, userID, name, color, icon).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, id int64) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, color, icon, is_default, created_at
		FROM categories WHERE id = $1
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &c, nil
}

// GetCategoriesForUser returns the user's own categories plus the shared
// default ones.
func GetCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, color, icon, is_default, created_at
		FROM categories
		WHERE user_id = $1 OR is_default
		ORDER BY is_default DESC, created_at ASC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// IncrementPopularCategory bumps the shared usage counter for a category
// name. The upsert increments in place on the server, so concurrent creates
// of the same name never lose a count.
func IncrementPopularCategory(ctx context.Context, pool *pgxpool.Pool, name string) error {
	query := `
		INSERT INTO popular_categories (name, usage_count)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE
		SET usage_count = popular_categories.usage_count + 1
	`
	if _, err := pool.Exec(ctx, query, name); err != nil {
		return fmt.Errorf("failed to increment popular category: %w", err)
	}
	db.DelPopularCache()
	return nil
}

// GetPopularCategories returns the top ten category names by usage count,
// served from cache when the ranking has not changed.
func GetPopularCategories(ctx context.Context, pool *pgxpool.Pool) ([]models.PopularCategory, error) {
	if cached, found := db.Cache.Get(db.PopularCategoriesCacheKey); found {
		if popular, ok := cached.([]models.PopularCategory); ok {
			return popular, nil
		}
	}

	query := `
		SELECT id, name, usage_count
		FROM popular_categories
		ORDER BY usage_count DESC, name ASC
		LIMIT 10
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var popular []models.PopularCategory
	for rows.Next() {
		var p models.PopularCategory
		if err := rows.Scan(&p.ID, &p.Name, &p.UsageCount); err != nil {
			return nil, err
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetPopularCache(popular)
	return popular, nil
}
