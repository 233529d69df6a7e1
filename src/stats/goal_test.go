package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spindon-server/src/models"
)

func boolptr(b bool) *bool { return &b }

func TestEvaluateDayOverBudget(t *testing.T) {
	eval := EvaluateDay(62000, int64ptr(50000))

	require.NotNil(t, eval.IsGoalAchieved)
	assert.False(t, *eval.IsGoalAchieved)
	require.NotNil(t, eval.Difference)
	assert.Equal(t, int64(12000), *eval.Difference)
	require.NotNil(t, eval.RemainingBudget)
	assert.Equal(t, int64(0), *eval.RemainingBudget)
	assert.Equal(t, 124, eval.SpendingPercentage)
}

func TestEvaluateDayUnderBudget(t *testing.T) {
	eval := EvaluateDay(30000, int64ptr(50000))

	require.NotNil(t, eval.IsGoalAchieved)
	assert.True(t, *eval.IsGoalAchieved)
	assert.Equal(t, int64(-20000), *eval.Difference)
	assert.Equal(t, int64(20000), *eval.RemainingBudget)
	assert.Equal(t, 60, eval.SpendingPercentage)
}

func TestEvaluateDayNoGoal(t *testing.T) {
	eval := EvaluateDay(12345, nil)
	assert.Nil(t, eval.IsGoalAchieved)
	assert.Nil(t, eval.Difference)
	assert.Nil(t, eval.RemainingBudget)
	assert.Zero(t, eval.SpendingPercentage)
}

func TestEvaluateDayZeroSpendIsAchieved(t *testing.T) {
	eval := EvaluateDay(0, int64ptr(50000))
	require.NotNil(t, eval.IsGoalAchieved)
	assert.True(t, *eval.IsGoalAchieved)
	assert.Equal(t, int64(50000), *eval.RemainingBudget)
	assert.Zero(t, eval.SpendingPercentage)
}

func TestSplitGoals(t *testing.T) {
	goals := []models.SpendingGoal{
		{ID: 1, Type: models.GoalTypeDaily, Amount: 30000},
		{ID: 2, Type: models.GoalTypeMonthly, Amount: 900000},
		{ID: 3, Type: models.GoalTypeDaily, Amount: 25000},
	}
	monthly, daily := SplitGoals(goals)
	require.NotNil(t, monthly)
	assert.Equal(t, int64(2), monthly.ID)
	assert.Len(t, daily, 2)

	monthly, daily = SplitGoals(nil)
	assert.Nil(t, monthly)
	assert.Empty(t, daily)
}

func TestSummarizeMonthStatuses(t *testing.T) {
	goal := int64ptr(50000)
	statuses := []models.DailySpendingStatus{
		{Date: day(2024, 2, 1), HasSpending: true, TotalAmount: 30000, IsGoalAchieved: boolptr(true), DailyGoal: goal},
		{Date: day(2024, 2, 2), HasSpending: true, TotalAmount: 62000, IsGoalAchieved: boolptr(false), DailyGoal: goal},
		{Date: day(2024, 2, 3), HasSpending: false, TotalAmount: 0, IsGoalAchieved: boolptr(true), DailyGoal: goal},
		{Date: day(2024, 2, 4), HasSpending: true, TotalAmount: 40000, IsGoalAchieved: boolptr(true), DailyGoal: goal},
		// no goal configured on this day
		{Date: day(2024, 2, 5), HasSpending: true, TotalAmount: 99999},
	}

	stats := SummarizeMonthStatuses(2024, 2, statuses)

	assert.Equal(t, 29, stats.TotalDays) // leap year
	assert.Equal(t, 5, stats.DaysRecorded)
	assert.Equal(t, 24, stats.DaysNotRecorded)
	assert.Equal(t, 4, stats.DaysWithSpending)
	assert.Equal(t, 1, stats.DaysWithoutSpending)
	assert.Equal(t, 3, stats.GoalAchievedDays)
	assert.Equal(t, 1, stats.GoalFailedDays)
	assert.Equal(t, 75, stats.SuccessRate)
	// saved: 20000 + 50000 + 10000, exceeded: 12000
	assert.Equal(t, int64(80000), stats.TotalSavedAmount)
	assert.Equal(t, int64(12000), stats.TotalExceededAmount)
	assert.Equal(t, int64(57999), stats.AverageDailyAmount)
	assert.Equal(t, 2, stats.LongestSuccessStreak)
	assert.Equal(t, 1, stats.LongestFailureStreak)
	// the no-goal day at the end breaks the open run
	assert.Equal(t, 0, stats.ConsecutiveSuccessDays)
	assert.Equal(t, 0, stats.ConsecutiveFailureDays)
}

func TestSummarizeMonthStatusesEmpty(t *testing.T) {
	stats := SummarizeMonthStatuses(2023, 2, nil)
	assert.Equal(t, 28, stats.TotalDays)
	assert.Equal(t, 28, stats.DaysNotRecorded)
	assert.Zero(t, stats.SuccessRate)
	assert.Zero(t, stats.AverageDailyAmount)
}
