package stats

import (
	"sort"

	"spindon-server/src/models"
)

// DayEvaluation compares one day's spend against a daily goal. With no goal
// configured every pointer field is nil and the percentage is 0. A day with
// no transactions still evaluates, with a spend of zero.
type DayEvaluation struct {
	IsGoalAchieved     *bool  `json:"is_goal_achieved"`
	Difference         *int64 `json:"difference"`
	RemainingBudget    *int64 `json:"remaining_budget"`
	SpendingPercentage int    `json:"spending_percentage"`
}

func EvaluateDay(totalSpent int64, dailyGoal *int64) DayEvaluation {
	if dailyGoal == nil {
		return DayEvaluation{}
	}
	goal := *dailyGoal
	achieved := totalSpent <= goal
	difference := totalSpent - goal
	remaining := goal - totalSpent
	if remaining < 0 {
		remaining = 0
	}
	eval := DayEvaluation{
		IsGoalAchieved:  &achieved,
		Difference:      &difference,
		RemainingBudget: &remaining,
	}
	if goal > 0 {
		eval.SpendingPercentage = Share(totalSpent, goal)
	}
	return eval
}

// SplitGoals separates a month's goal rows into the monthly target (first
// MONTHLY row, at most one expected per month) and the daily targets.
func SplitGoals(goals []models.SpendingGoal) (*models.SpendingGoal, []models.SpendingGoal) {
	var monthly *models.SpendingGoal
	daily := make([]models.SpendingGoal, 0, len(goals))
	for i := range goals {
		switch goals[i].Type {
		case models.GoalTypeMonthly:
			if monthly == nil {
				monthly = &goals[i]
			}
		case models.GoalTypeDaily:
			daily = append(daily, goals[i])
		}
	}
	return monthly, daily
}

// MonthlyGoalStats aggregates a month of daily status rows into the numbers
// the progress calendar renders: recorded/unrecorded day counts, goal
// outcomes, saved vs exceeded totals and the streaks within the month.
type MonthlyGoalStats struct {
	Year                   int   `json:"year"`
	Month                  int   `json:"month"`
	TotalDays              int   `json:"total_days"`
	DaysWithSpending       int   `json:"days_with_spending"`
	DaysWithoutSpending    int   `json:"days_without_spending"`
	DaysRecorded           int   `json:"days_recorded"`
	DaysNotRecorded        int   `json:"days_not_recorded"`
	GoalAchievedDays       int   `json:"goal_achieved_days"`
	GoalFailedDays         int   `json:"goal_failed_days"`
	SuccessRate            int   `json:"success_rate"`
	TotalSavedAmount       int64 `json:"total_saved_amount"`
	TotalExceededAmount    int64 `json:"total_exceeded_amount"`
	AverageDailyAmount     int64 `json:"average_daily_amount"`
	ConsecutiveSuccessDays int   `json:"consecutive_success_days"`
	ConsecutiveFailureDays int   `json:"consecutive_failure_days"`
	LongestSuccessStreak   int   `json:"longest_success_streak"`
	LongestFailureStreak   int   `json:"longest_failure_streak"`
}

func SummarizeMonthStatuses(year, month int, statuses []models.DailySpendingStatus) MonthlyGoalStats {
	_, last := MonthRange(year, month)
	stats := MonthlyGoalStats{
		Year:         year,
		Month:        month,
		TotalDays:    last.Day(),
		DaysRecorded: len(statuses),
	}
	stats.DaysNotRecorded = stats.TotalDays - stats.DaysRecorded

	ordered := make([]models.DailySpendingStatus, len(statuses))
	copy(ordered, statuses)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	outcomes := make([]DayOutcome, 0, len(ordered))
	var totalSpent int64
	for _, st := range ordered {
		if st.HasSpending {
			stats.DaysWithSpending++
		} else {
			stats.DaysWithoutSpending++
		}
		totalSpent += st.TotalAmount

		outcomes = append(outcomes, DayOutcome{Date: st.Date, Achieved: st.IsGoalAchieved})
		if st.IsGoalAchieved != nil && st.DailyGoal != nil {
			difference := st.TotalAmount - *st.DailyGoal
			if difference <= 0 {
				stats.TotalSavedAmount += -difference
			} else {
				stats.TotalExceededAmount += difference
			}
		}
	}

	streaks := Track(outcomes)
	stats.GoalAchievedDays = streaks.TotalSuccessDays
	stats.GoalFailedDays = streaks.TotalFailureDays
	stats.ConsecutiveSuccessDays = streaks.CurrentSuccessStreak
	stats.ConsecutiveFailureDays = streaks.CurrentFailureStreak
	stats.LongestSuccessStreak = streaks.LongestSuccessStreak
	stats.LongestFailureStreak = streaks.LongestFailureStreak

	if goalDays := stats.GoalAchievedDays + stats.GoalFailedDays; goalDays > 0 {
		stats.SuccessRate = Share(int64(stats.GoalAchievedDays), int64(goalDays))
	}
	if stats.DaysWithSpending > 0 {
		stats.AverageDailyAmount = totalSpent / int64(stats.DaysWithSpending)
	}

	return stats
}
