package stats

import (
	"sort"
	"time"
)

// DayOutcome is one day's goal result. Achieved is nil for a day without a
// configured goal; such days break streaks without counting toward either.
type DayOutcome struct {
	Date     time.Time
	Achieved *bool
}

type StreakSummary struct {
	CurrentSuccessStreak int `json:"current_success_streak"`
	CurrentFailureStreak int `json:"current_failure_streak"`
	LongestSuccessStreak int `json:"longest_success_streak"`
	LongestFailureStreak int `json:"longest_failure_streak"`
	TotalSuccessDays     int `json:"total_success_days"`
	TotalFailureDays     int `json:"total_failure_days"`
}

// Track scans outcomes in ascending date order (the input may arrive in any
// order) keeping two running counters and two maxima. Current streaks are
// whatever run is still open at the newest day.
func Track(outcomes []DayOutcome) StreakSummary {
	ordered := make([]DayOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	var s StreakSummary
	success, failure := 0, 0
	for _, day := range ordered {
		switch {
		case day.Achieved == nil:
			success, failure = 0, 0
		case *day.Achieved:
			s.TotalSuccessDays++
			success++
			failure = 0
			if success > s.LongestSuccessStreak {
				s.LongestSuccessStreak = success
			}
		default:
			s.TotalFailureDays++
			failure++
			success = 0
			if failure > s.LongestFailureStreak {
				s.LongestFailureStreak = failure
			}
		}
	}
	s.CurrentSuccessStreak = success
	s.CurrentFailureStreak = failure
	return s
}
