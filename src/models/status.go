package models

import "time"

// DailySpendingStatus is the derived per-day record kept in sync by the
// recompute-on-write step after every spending mutation. IsGoalAchieved is
// nil when no daily goal was configured for that day.
type DailySpendingStatus struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Date           time.Time `json:"date"`
	HasSpending    bool      `json:"has_spending"`
	TotalAmount    int64     `json:"total_amount"`
	IsGoalAchieved *bool     `json:"is_goal_achieved"`
	DailyGoal      *int64    `json:"daily_goal"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GoalAchievement exists only for days that had a positive daily goal.
// Difference is actual minus goal; negative means the user stayed under
// budget.
type GoalAchievement struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Date         time.Time `json:"date"`
	IsAchieved   bool      `json:"is_achieved"`
	DailyGoal    int64     `json:"daily_goal"`
	ActualAmount int64     `json:"actual_amount"`
	Difference   int64     `json:"difference"`
	CreatedAt    time.Time `json:"created_at"`
}
