package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spindon-server/src/models"
	"spindon-server/src/stats"
)

// GetDailyStatus returns the derived status for one day, or nil when the day
// was never recorded.
func GetDailyStatus(ctx context.Context, pool *pgxpool.Pool, userID int64, date time.Time) (*models.DailySpendingStatus, error) {
	query := `
		SELECT id, user_id, status_date, has_spending, total_amount, is_goal_achieved, daily_goal, created_at, updated_at
		FROM daily_spending_status
		WHERE user_id = $1 AND status_date = $2
	`
	var st models.DailySpendingStatus
	err := pool.QueryRow(ctx, query, userID, date).Scan(
		&st.ID, &st.UserID, &st.Date, &st.HasSpending, &st.TotalAmount,
		&st.IsGoalAchieved, &st.DailyGoal, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &st, nil
}

func GetStatusesInRange(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end time.Time) ([]models.DailySpendingStatus, error) {
	query := `
		SELECT id, user_id, status_date, has_spending, total_amount, is_goal_achieved, daily_goal, created_at, updated_at
		FROM daily_spending_status
		WHERE user_id = $1 AND status_date >= $2 AND status_date <= $3
		ORDER BY status_date ASC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var statuses []models.DailySpendingStatus
	for rows.Next() {
		var st models.DailySpendingStatus
		if err := rows.Scan(&st.ID, &st.UserID, &st.Date, &st.HasSpending, &st.TotalAmount, &st.IsGoalAchieved, &st.DailyGoal, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// GetAchievementsSince returns goal achievements dated on or after start,
// oldest first.
func GetAchievementsSince(ctx context.Context, pool *pgxpool.Pool, userID int64, start time.Time) ([]models.GoalAchievement, error) {
	query := `
		SELECT id, user_id, achieve_date, is_achieved, daily_goal, actual_amount, difference, created_at
		FROM goal_achievements
		WHERE user_id = $1 AND achieve_date >= $2
		ORDER BY achieve_date ASC
	`
	rows, err := pool.Query(ctx, query, userID, start)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var achievements []models.GoalAchievement
	for rows.Next() {
		var a models.GoalAchievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Date, &a.IsAchieved, &a.DailyGoal, &a.ActualAmount, &a.Difference, &a.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// RecomputeDailyStatus re-derives one day's status and achievement rows from
// the spending table inside a single transaction. It replaces the database
// triggers of the old schema: callers invoke it after every spending
// mutation (and for both days when a spending moves between dates).
//
// has_spending and total_amount reflect every row of the day; the goal
// evaluation compares only the spending classes selected by the user's
// inclusion flags. Without a positive goal the achievement row is removed.
func RecomputeDailyStatus(ctx context.Context, pool *pgxpool.Pool, userID int64, date time.Time) (*models.DailySpendingStatus, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin recompute: %w", err)
	}
	defer tx.Rollback(ctx)

	var goal *models.UserGoal
	goalQuery := `
		SELECT daily_goal, include_general, include_fixed, include_necessary, include_avoidable
		FROM user_goals WHERE user_id = $1
	`
	var g models.UserGoal
	err = tx.QueryRow(ctx, goalQuery, userID).Scan(
		&g.DailyGoal, &g.IncludeGeneral, &g.IncludeFixed, &g.IncludeNecessary, &g.IncludeAvoidable,
	)
	switch {
	case err == nil:
		goal = &g
	case errors.Is(err, pgx.ErrNoRows):
		// no standing goal; the day still gets a status row
	default:
		return nil, fmt.Errorf("query user goal: %w", err)
	}

	includeGeneral, includeFixed, includeNecessary, includeAvoidable := true, true, true, true
	if goal != nil {
		includeGeneral = goal.IncludeGeneral
		includeFixed = goal.IncludeFixed
		includeNecessary = goal.IncludeNecessary
		includeAvoidable = goal.IncludeAvoidable
	}

	sumQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE
		               (avoidable AND $3)
		            OR (NOT avoidable AND fixed AND $4)
		            OR (NOT avoidable AND NOT fixed AND necessary AND $5)
		            OR (NOT avoidable AND NOT fixed AND NOT necessary AND $6)), 0)
		FROM spendings
		WHERE user_id = $1 AND spent_date = $2
	`
	var count int
	var totalAmount, includedAmount int64
	err = tx.QueryRow(ctx, sumQuery, userID, date, includeAvoidable, includeFixed, includeNecessary, includeGeneral).
		Scan(&count, &totalAmount, &includedAmount)
	if err != nil {
		return nil, fmt.Errorf("sum day spendings: %w", err)
	}

	var dailyGoal *int64
	if goal != nil {
		dailyGoal = &goal.DailyGoal
	}
	eval := stats.EvaluateDay(includedAmount, dailyGoal)

	upsertStatus := `
		INSERT INTO daily_spending_status (user_id, status_date, has_spending, total_amount, is_goal_achieved, daily_goal)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, status_date) DO UPDATE
		SET has_spending = EXCLUDED.has_spending,
		    total_amount = EXCLUDED.total_amount,
		    is_goal_achieved = EXCLUDED.is_goal_achieved,
		    daily_goal = EXCLUDED.daily_goal,
		    updated_at = NOW()
		RETURNING id, user_id, status_date, has_spending, total_amount, is_goal_achieved, daily_goal, created_at, updated_at
	`
	var st models.DailySpendingStatus
	err = tx.QueryRow(ctx, upsertStatus, userID, date, count > 0, totalAmount, eval.IsGoalAchieved, dailyGoal).Scan(
		&st.ID, &st.UserID, &st.Date, &st.HasSpending, &st.TotalAmount,
		&st.IsGoalAchieved, &st.DailyGoal, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert daily status: %w", err)
	}

	if goal != nil && goal.DailyGoal > 0 {
		upsertAchievement := `
			INSERT INTO goal_achievements (user_id, achieve_date, is_achieved, daily_goal, actual_amount, difference)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, achieve_date) DO UPDATE
			SET is_achieved = EXCLUDED.is_achieved,
			    daily_goal = EXCLUDED.daily_goal,
			    actual_amount = EXCLUDED.actual_amount,
			    difference = EXCLUDED.difference
		`
		achieved := includedAmount <= goal.DailyGoal
		_, err = tx.Exec(ctx, upsertAchievement, userID, date, achieved, goal.DailyGoal, includedAmount, includedAmount-goal.DailyGoal)
		if err != nil {
			return nil, fmt.Errorf("upsert goal achievement: %w", err)
		}
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM goal_achievements WHERE user_id = $1 AND achieve_date = $2`, userID, date)
		if err != nil {
			return nil, fmt.Errorf("delete goal achievement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit recompute: %w", err)
	}
	return &st, nil
}
