package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spindon-server/src/stats"
)

func TestAddLevelPointsMultiRollover(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)

	// Fresh users start at level 1 with 0 points; 250 points crosses two
	// thresholds in one statement.
	lv, err := AddLevelPoints(ctx, pool, userID, 250)
	require.NoError(t, err)
	assert.Equal(t, 3, lv.Level)
	assert.Equal(t, 50, lv.LevelPoint)

	lv, err = AddLevelPoints(ctx, pool, userID, 75)
	require.NoError(t, err)
	assert.Equal(t, 4, lv.Level)
	assert.Equal(t, 25, lv.LevelPoint)

	lv, err = AddLevelPoints(ctx, pool, userID, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, lv.Level)
	assert.Equal(t, 25, lv.LevelPoint)
}

func TestAddLevelPointsMatchesPureRollover(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createTestUser(t, pool)

	level, point := 1, 0
	for _, delta := range []int{99, 1, 150, 300, 49} {
		lv, err := AddLevelPoints(ctx, pool, userID, delta)
		require.NoError(t, err)

		level, point = stats.ApplyPoints(level, point, delta)
		assert.Equal(t, level, lv.Level)
		assert.Equal(t, point, lv.LevelPoint)
		assert.GreaterOrEqual(t, lv.LevelPoint, 0)
		assert.Less(t, lv.LevelPoint, 100)
	}
}

func TestAddLevelPointsUnknownUser(t *testing.T) {
	pool := testPool(t)

	_, err := AddLevelPoints(context.Background(), pool, -1, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
