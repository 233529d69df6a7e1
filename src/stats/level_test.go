package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPoints(t *testing.T) {
	tests := []struct {
		name                 string
		level, point, delta  int
		wantLevel, wantPoint int
	}{
		{"no rollover", 1, 0, 50, 1, 50},
		{"exact threshold", 1, 0, 100, 2, 0},
		{"single rollover", 3, 80, 30, 4, 10},
		{"multiple rollovers", 1, 0, 650, 7, 50},
		{"zero delta", 5, 99, 0, 5, 99},
		{"boundary stays", 2, 99, 1, 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, point := ApplyPoints(tc.level, tc.point, tc.delta)
			assert.Equal(t, tc.wantLevel, level)
			assert.Equal(t, tc.wantPoint, point)
		})
	}
}

func TestApplyPointsInvariant(t *testing.T) {
	// level1 = level0 + (point0+delta)/100, point1 = (point0+delta)%100
	for _, point := range []int{0, 1, 50, 99} {
		for _, delta := range []int{0, 1, 99, 100, 101, 999, 100000} {
			level, newPoint := ApplyPoints(1, point, delta)
			assert.GreaterOrEqual(t, newPoint, 0)
			assert.Less(t, newPoint, 100)
			assert.Equal(t, 1+(point+delta)/100, level)
			assert.Equal(t, (point+delta)%100, newPoint)
		}
	}
}

func TestPointsForAmount(t *testing.T) {
	assert.Equal(t, 100, PointsForAmount(10000))
	assert.Equal(t, 200, PointsForAmount(20000))
	assert.Equal(t, 350, PointsForAmount(35000))
	assert.Equal(t, 0, PointsForAmount(99))
	assert.Equal(t, 1, PointsForAmount(199))
	assert.Equal(t, 0, PointsForAmount(-500))
}

func TestSpendingSessionAccumulation(t *testing.T) {
	// three spendings of 10000/20000/35000 on one day award 650 points:
	// starting from level 1 with 0 points that lands on level 7, 50 points
	level, point := 1, 0
	for _, amount := range []int64{10000, 20000, 35000} {
		level, point = ApplyPoints(level, point, PointsForAmount(amount))
	}
	assert.Equal(t, 7, level)
	assert.Equal(t, 50, point)
}
