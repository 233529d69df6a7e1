package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spindon-server/src/models"
)

func addDaySpending(t *testing.T, pool *pgxpool.Pool, userID int64, day time.Time, amount int64, avoidable, fixed, necessary bool) {
	t.Helper()
	_, err := CreateSpending(context.Background(), pool, &models.Spending{
		UserID:    userID,
		Amount:    amount,
		Title:     "entry",
		SpentDate: day,
		Avoidable: avoidable,
		Fixed:     fixed,
		Necessary: necessary,
	})
	require.NoError(t, err)
}

func TestRecomputeDailyStatusInclusionFlags(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := UpsertUserGoal(ctx, pool, &models.UserGoal{
		UserID:           userID,
		DailyGoal:        10000,
		IncludeGeneral:   true,
		IncludeFixed:     true,
		IncludeNecessary: true,
		IncludeAvoidable: false,
	})
	require.NoError(t, err)

	addDaySpending(t, pool, userID, day, 3000, false, false, false)
	addDaySpending(t, pool, userID, day, 5000, true, false, false)
	addDaySpending(t, pool, userID, day, 4000, false, true, false)

	status, err := RecomputeDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)

	// total_amount carries all three rows; the goal only sees the 7000 of
	// included classes, which stays under the 10000 budget.
	assert.True(t, status.HasSpending)
	assert.Equal(t, int64(12000), status.TotalAmount)
	require.NotNil(t, status.DailyGoal)
	assert.Equal(t, int64(10000), *status.DailyGoal)
	require.NotNil(t, status.IsGoalAchieved)
	assert.True(t, *status.IsGoalAchieved)

	achievements, err := GetAchievementsSince(ctx, pool, userID, day)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.True(t, achievements[0].IsAchieved)
	assert.Equal(t, int64(10000), achievements[0].DailyGoal)
	assert.Equal(t, int64(7000), achievements[0].ActualAmount)
	assert.Equal(t, int64(-3000), achievements[0].Difference)
}

func TestRecomputeDailyStatusAllClassesIncluded(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	_, err := UpsertUserGoal(ctx, pool, &models.UserGoal{
		UserID:           userID,
		DailyGoal:        10000,
		IncludeGeneral:   true,
		IncludeFixed:     true,
		IncludeNecessary: true,
		IncludeAvoidable: true,
	})
	require.NoError(t, err)

	addDaySpending(t, pool, userID, day, 3000, false, false, false)
	addDaySpending(t, pool, userID, day, 5000, true, false, false)
	addDaySpending(t, pool, userID, day, 4000, false, false, true)

	status, err := RecomputeDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)

	assert.Equal(t, int64(12000), status.TotalAmount)
	require.NotNil(t, status.IsGoalAchieved)
	assert.False(t, *status.IsGoalAchieved)

	achievements, err := GetAchievementsSince(ctx, pool, userID, day)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.False(t, achievements[0].IsAchieved)
	assert.Equal(t, int64(12000), achievements[0].ActualAmount)
	assert.Equal(t, int64(2000), achievements[0].Difference)
}

func TestRecomputeDailyStatusDropsAchievementWithoutGoal(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	_, err := UpsertUserGoal(ctx, pool, &models.UserGoal{
		UserID:           userID,
		DailyGoal:        5000,
		IncludeGeneral:   true,
		IncludeFixed:     true,
		IncludeNecessary: true,
		IncludeAvoidable: true,
	})
	require.NoError(t, err)

	addDaySpending(t, pool, userID, day, 6000, false, false, false)

	_, err = RecomputeDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)

	achievements, err := GetAchievementsSince(ctx, pool, userID, day)
	require.NoError(t, err)
	require.Len(t, achievements, 1)

	// Zeroing the goal removes the day's achievement row on the next
	// recompute; the status row stays.
	_, err = UpsertUserGoal(ctx, pool, &models.UserGoal{
		UserID:           userID,
		DailyGoal:        0,
		IncludeGeneral:   true,
		IncludeFixed:     true,
		IncludeNecessary: true,
		IncludeAvoidable: true,
	})
	require.NoError(t, err)

	status, err := RecomputeDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)
	assert.True(t, status.HasSpending)
	assert.Equal(t, int64(6000), status.TotalAmount)

	achievements, err = GetAchievementsSince(ctx, pool, userID, day)
	require.NoError(t, err)
	assert.Empty(t, achievements)
}

func TestRecomputeDailyStatusNoSpendingDay(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	day := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	_, err := UpsertUserGoal(ctx, pool, &models.UserGoal{
		UserID:           userID,
		DailyGoal:        5000,
		IncludeGeneral:   true,
		IncludeFixed:     true,
		IncludeNecessary: true,
		IncludeAvoidable: true,
	})
	require.NoError(t, err)

	status, err := RecomputeDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)
	assert.False(t, status.HasSpending)
	assert.Equal(t, int64(0), status.TotalAmount)
	require.NotNil(t, status.IsGoalAchieved)
	assert.True(t, *status.IsGoalAchieved)

	fetched, err := GetDailyStatus(ctx, pool, userID, day)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, status.ID, fetched.ID)
}
