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

func CreateSpendingGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.SpendingGoal) (*models.SpendingGoal, error) {
	query := `
		INSERT INTO spending_goals (user_id, amount, type, goal_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, amount, type, goal_date, created_at
	`
	var g models.SpendingGoal
	err := pool.QueryRow(ctx, query, goal.UserID, goal.Amount, goal.Type, goal.GoalDate).
		Scan(&g.ID, &g.UserID, &g.Amount, &g.Type, &g.GoalDate, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create spending goal: %w", err)
	}
	return &g, nil
}

func CreateCategoryGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.CategoryGoal) (*models.CategoryGoal, error) {
	query := `
		INSERT INTO category_goals (category_id, amount, type, goal_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, category_id, amount, type, goal_date, created_at
	`
	var g models.CategoryGoal
	err := pool.QueryRow(ctx, query, goal.CategoryID, goal.Amount, goal.Type, goal.GoalDate).
		Scan(&g.ID, &g.CategoryID, &g.Amount, &g.Type, &g.GoalDate, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category goal: %w", err)
	}
	return &g, nil
}

func GetSpendingGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.SpendingGoal, error) {
	query := `
		SELECT id, user_id, amount, type, goal_date, created_at
		FROM spending_goals
		WHERE user_id = $1
		ORDER BY goal_date DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var goals []models.SpendingGoal
	for rows.Next() {
		var g models.SpendingGoal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Amount, &g.Type, &g.GoalDate, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetCategoryGoalsForUser returns goals on any category the user owns.
func GetCategoryGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.CategoryGoal, error) {
	query := `
		SELECT g.id, g.category_id, g.amount, g.type, g.goal_date, g.created_at
		FROM category_goals g
		JOIN categories c ON c.id = g.category_id
		WHERE c.user_id = $1
		ORDER BY g.goal_date DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var goals []models.CategoryGoal
	for rows.Next() {
		var g models.CategoryGoal
		if err := rows.Scan(&g.ID, &g.CategoryID, &g.Amount, &g.Type, &g.GoalDate, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetSpendingGoalsInRange returns all goals dated within the inclusive
// interval, oldest first; callers split DAILY from MONTHLY.
func GetSpendingGoalsInRange(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end time.Time) ([]models.SpendingGoal, error) {
	query := `
		SELECT id, user_id, amount, type, goal_date, created_at
		FROM spending_goals
		WHERE user_id = $1 AND goal_date >= $2 AND goal_date <= $3
		ORDER BY goal_date ASC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var goals []models.SpendingGoal
	for rows.Next() {
		var g models.SpendingGoal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Amount, &g.Type, &g.GoalDate, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetUserGoal returns the standing daily goal, or nil when none is set.
func GetUserGoal(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.UserGoal, error) {
	query := `
		SELECT id, user_id, daily_goal, include_general, include_fixed,
		       include_necessary, include_avoidable, created_at, updated_at
		FROM user_goals WHERE user_id = $1
	`
	var g models.UserGoal
	err := pool.QueryRow(ctx, query, userID).Scan(
		&g.ID, &g.UserID, &g.DailyGoal, &g.IncludeGeneral, &g.IncludeFixed,
		&g.IncludeNecessary, &g.IncludeAvoidable, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &g, nil
}

func UpsertUserGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.UserGoal) (*models.UserGoal, error) {
	query := `
		INSERT INTO user_goals (user_id, daily_goal, include_general, include_fixed, include_necessary, include_avoidable)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_goal = EXCLUDED.daily_goal,
		    include_general = EXCLUDED.include_general,
		    include_fixed = EXCLUDED.include_fixed,
		    include_necessary = EXCLUDED.include_necessary,
		    include_avoidable = EXCLUDED.include_avoidable,
		    updated_at = NOW()
		RETURNING id, user_id, daily_goal, include_general, include_fixed,
		          include_necessary, include_avoidable, created_at, updated_at
	`
	var g models.UserGoal
	err := pool.QueryRow(ctx, query,
		goal.UserID, goal.DailyGoal, goal.IncludeGeneral, goal.IncludeFixed,
		goal.IncludeNecessary, goal.IncludeAvoidable,
	).Scan(
		&g.ID, &g.UserID, &g.DailyGoal, &g.IncludeGeneral, &g.IncludeFixed,
		&g.IncludeNecessary, &g.IncludeAvoidable, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user goal: %w", err)
	}
	return &g, nil
}
