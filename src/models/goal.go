package models

import "time"

type GoalType string

const (
	GoalTypeDaily   GoalType = "DAILY"
	GoalTypeMonthly GoalType = "MONTHLY"
)

// SpendingGoal is a user-level target for one day (DAILY) or one month
// (MONTHLY, dated on any day of that month).
type SpendingGoal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Type      GoalType  `json:"type"`
	GoalDate  time.Time `json:"goal_date"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryGoal is the same target scoped to one category.
type CategoryGoal struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Amount     int64     `json:"amount"`
	Type       GoalType  `json:"type"`
	GoalDate   time.Time `json:"goal_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserGoal is the standing daily budget with inclusion flags selecting which
// spending classes count toward it. One row per user.
type UserGoal struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	DailyGoal        int64     `json:"daily_goal"`
	IncludeGeneral   bool      `json:"include_general"`
	IncludeFixed     bool      `json:"include_fixed"`
	IncludeNecessary bool      `json:"include_necessary"`
	IncludeAvoidable bool      `json:"include_avoidable"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
