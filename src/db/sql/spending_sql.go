package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spindon-server/src/models"
)

var ErrSpendingNotFound = errors.New("spending not found")

const spendingColumns = `
	s.id, s.user_id, s.category_id, s.payment_method_id, s.amount, s.title,
	s.memo, s.location, s.companions, s.spent_date, s.spent_time,
	s.avoidable, s.fixed, s.necessary, s.favorite, s.created_at, s.updated_at,
	c.name, p.name, p.type
`

func scanSpending(row pgx.Row) (*models.Spending, error) {
	var s models.Spending
	err := row.Scan(
		&s.ID, &s.UserID, &s.CategoryID, &s.PaymentMethodID, &s.Amount, &s.Title,
		&s.Memo, &s.Location, &s.Companions, &s.SpentDate, &s.SpentTime,
		&s.Avoidable, &s.Fixed, &s.Necessary, &s.Favorite, &s.CreatedAt, &s.UpdatedAt,
		&s.CategoryName, &s.PaymentMethodName, &s.PaymentMethodType,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func CreateSpending(ctx context.Context, pool *pgxpool.Pool, sp *models.Spending) (*models.Spending, error) {
	query := `
		INSERT INTO spendings (
			user_id, category_id, payment_method_id, amount, title, memo,
			location, companions, spent_date, spent_time,
			avoidable, fixed, necessary, favorite
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	created := *sp
	err := pool.QueryRow(ctx, query,
		sp.UserID, sp.CategoryID, sp.PaymentMethodID, sp.Amount, sp.Title, sp.Memo,
		sp.Location, sp.Companions, sp.SpentDate, sp.SpentTime,
		sp.Avoidable, sp.Fixed, sp.Necessary, sp.Favorite,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create spending: %w", err)
	}
	return &created, nil
}

func GetSpendingByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.Spending, error) {
	query := `
		SELECT ` + spendingColumns + `
		FROM spendings s
		LEFT JOIN categories c ON c.id = s.category_id
		LEFT JOIN payment_methods p ON p.id = s.payment_method_id
		WHERE s.id = $1 AND s.user_id = $2
	`
	sp, err := scanSpending(pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpendingNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return sp, nil
}

// GetSpendingsInRange returns a user's spendings with both inclusive bounds,
// category and payment method joined, newest first.
func GetSpendingsInRange(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end time.Time) ([]models.Spending, error) {
	query := `
		SELECT ` + spendingColumns + `
		FROM spendings s
		LEFT JOIN categories c ON c.id = s.category_id
		LEFT JOIN payment_methods p ON p.id = s.payment_method_id
		WHERE s.user_id = $1 AND s.spent_date >= $2 AND s.spent_date <= $3
		ORDER BY s.spent_date DESC, s.id DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var spendings []models.Spending
	for rows.Next() {
		sp, err := scanSpending(rows)
		if err != nil {
			return nil, err
		}
		spendings = append(spendings, *sp)
	}
	return spendings, rows.Err()
}

func GetAllSpendingsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Spending, error) {
	query := `
		SELECT ` + spendingColumns + `
		FROM spendings s
		LEFT JOIN categories c ON c.id = s.category_id
		LEFT JOIN payment_methods p ON p.id = s.payment_method_id
		WHERE s.user_id = $1
		ORDER BY s.spent_date DESC, s.id DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var spendings []models.Spending
	for rows.Next() {
		sp, err := scanSpending(rows)
		if err != nil {
			return nil, err
		}
		spendings = append(spendings, *sp)
	}
	return spendings, rows.Err()
}

func UpdateSpending(ctx context.Context, pool *pgxpool.Pool, sp *models.Spending) (*models.Spending, error) {
	query := `
		UPDATE spendings
		SET category_id = $1, payment_method_id = $2, amount = $3, title = $4,
		    memo = $5, location = $6, companions = $7, spent_date = $8,
		    spent_time = $9, avoidable = $10, fixed = $11, necessary = $12,
		    favorite = $13, updated_at = NOW()
		WHERE id = $14 AND user_id = $15
		RETURNING created_at, updated_at
	`
	updated := *sp
	err := pool.QueryRow(ctx, query,
		sp.CategoryID, sp.PaymentMethodID, sp.Amount, sp.Title,
		sp.Memo, sp.Location, sp.Companions, sp.SpentDate,
		sp.SpentTime, sp.Avoidable, sp.Fixed, sp.Necessary,
		sp.Favorite, sp.ID, sp.UserID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpendingNotFound
		}
		return nil, fmt.Errorf("failed to update spending: %w", err)
	}
	return &updated, nil
}

func DeleteSpending(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM spendings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete spending: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrSpendingNotFound
	}
	return nil
}

// GetCategoryAmounts returns the raw amounts recorded against one category,
// for the floored category average.
func GetCategoryAmounts(ctx context.Context, pool *pgxpool.Pool, categoryID int64) ([]int64, error) {
	rows, err := pool.Query(ctx, `SELECT amount FROM spendings WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var amounts []int64
	for rows.Next() {
		var a int64
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}
