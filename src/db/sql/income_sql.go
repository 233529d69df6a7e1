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

var ErrIncomeNotFound = errors.New("income not found")

func CreateIncome(ctx context.Context, pool *pgxpool.Pool, in *models.Income) (*models.Income, error) {
	query := `
		INSERT INTO incomes (user_id, amount, title, memo, income_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, amount, title, memo, income_date, created_at, updated_at
	`
	var created models.Income
	err := pool.QueryRow(ctx, query, in.UserID, in.Amount, in.Title, in.Memo, in.IncomeDate).Scan(
		&created.ID, &created.UserID, &created.Amount, &created.Title, &created.Memo,
		&created.IncomeDate, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}
	return &created, nil
}

func GetIncomesInRange(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end time.Time) ([]models.Income, error) {
	query := `
		SELECT id, user_id, amount, title, memo, income_date, created_at, updated_at
		FROM incomes
		WHERE user_id = $1 AND income_date >= $2 AND income_date <= $3
		ORDER BY income_date DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var incomes []models.Income
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount, &in.Title, &in.Memo, &in.IncomeDate, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

func UpdateIncome(ctx context.Context, pool *pgxpool.Pool, in *models.Income) (*models.Income, error) {
	query := `
		UPDATE incomes
		SET amount = $1, title = $2, memo = $3, income_date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, amount, title, memo, income_date, created_at, updated_at
	`
	var updated models.Income
	err := pool.QueryRow(ctx, query, in.Amount, in.Title, in.Memo, in.IncomeDate, in.ID, in.UserID).Scan(
		&updated.ID, &updated.UserID, &updated.Amount, &updated.Title, &updated.Memo,
		&updated.IncomeDate, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to update income: %w", err)
	}
	return &updated, nil
}

func DeleteIncome(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrIncomeNotFound
	}
	return nil
}
