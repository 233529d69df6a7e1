package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func outcomes(flags ...*bool) []DayOutcome {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]DayOutcome, len(flags))
	for i, f := range flags {
		out[i] = DayOutcome{Date: base.AddDate(0, 0, i), Achieved: f}
	}
	return out
}

func TestTrack(t *testing.T) {
	yes, no := boolptr(true), boolptr(false)

	s := Track(outcomes(yes, yes, no, yes, nil, yes, yes, yes))

	assert.Equal(t, 3, s.CurrentSuccessStreak)
	assert.Equal(t, 0, s.CurrentFailureStreak)
	assert.Equal(t, 3, s.LongestSuccessStreak)
	assert.Equal(t, 1, s.LongestFailureStreak)
	assert.Equal(t, 6, s.TotalSuccessDays)
	assert.Equal(t, 1, s.TotalFailureDays)
}

func TestTrackNormalizesOrder(t *testing.T) {
	yes, no := boolptr(true), boolptr(false)
	asc := outcomes(no, no, yes, yes, yes)

	// reverse the slice; Track must still scan oldest to newest
	desc := make([]DayOutcome, len(asc))
	for i := range asc {
		desc[i] = asc[len(asc)-1-i]
	}

	assert.Equal(t, Track(asc), Track(desc))
	assert.Equal(t, 3, Track(desc).CurrentSuccessStreak)
	assert.Equal(t, 2, Track(desc).LongestFailureStreak)
}

func TestTrackNilResetsBothWithoutCounting(t *testing.T) {
	yes, no := boolptr(true), boolptr(false)

	s := Track(outcomes(yes, yes, nil, no))
	assert.Equal(t, 0, s.CurrentSuccessStreak)
	assert.Equal(t, 1, s.CurrentFailureStreak)
	assert.Equal(t, 2, s.LongestSuccessStreak)
	assert.Equal(t, 2, s.TotalSuccessDays)
	assert.Equal(t, 1, s.TotalFailureDays)

	s = Track(outcomes(nil, nil, nil))
	assert.Zero(t, s.TotalSuccessDays)
	assert.Zero(t, s.TotalFailureDays)
	assert.Zero(t, s.LongestSuccessStreak)
}

func TestTrackEmpty(t *testing.T) {
	assert.Equal(t, StreakSummary{}, Track(nil))
}

func TestTrackAllFailures(t *testing.T) {
	no := boolptr(false)
	s := Track(outcomes(no, no, no, no))
	assert.Equal(t, 4, s.CurrentFailureStreak)
	assert.Equal(t, 4, s.LongestFailureStreak)
	assert.Equal(t, 0, s.CurrentSuccessStreak)
	assert.Equal(t, 4, s.TotalFailureDays)
}
