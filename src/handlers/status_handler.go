package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "spindon-server/src/db/sql"
	"spindon-server/src/models"
	"spindon-server/src/stats"
)

// RecordNoSpendingDay explicitly marks a day without transactions, so it
// counts as recorded in the monthly calendar and the streaks. The recompute
// derives everything else; with no rows the day lands on has_spending=false.
func RecordNoSpendingDay(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Date string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		status, err := db.RecomputeDailyStatus(r.Context(), pool, userID, date)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("date", req.Date).Msg("failed to record no-spending day")
			http.Error(w, "failed to record day", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(status)
	}
}

func GetMonthlyStatuses(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start, end := stats.MonthRange(year, month)
		statuses, err := db.GetStatusesInRange(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get monthly statuses")
			http.Error(w, "failed to get statuses", http.StatusInternalServerError)
			return
		}
		if statuses == nil {
			statuses = []models.DailySpendingStatus{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statuses)
	}
}

// GetMonthlyGoalStats renders the month's progress calendar numbers.
func GetMonthlyGoalStats(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start, end := stats.MonthRange(year, month)
		statuses, err := db.GetStatusesInRange(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get statuses for goal stats")
			http.Error(w, "failed to get goal stats", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats.SummarizeMonthStatuses(year, month, statuses))
	}
}

// GetConsecutiveRecords tracks streaks over the last 30 days of goal
// achievements.
func GetConsecutiveRecords(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		since := time.Now().AddDate(0, 0, -30)
		achievements, err := db.GetAchievementsSince(r.Context(), pool, userID, since)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get achievements")
			http.Error(w, "failed to get consecutive records", http.StatusInternalServerError)
			return
		}

		outcomes := make([]stats.DayOutcome, 0, len(achievements))
		for _, a := range achievements {
			achieved := a.IsAchieved
			outcomes = append(outcomes, stats.DayOutcome{Date: a.Date, Achieved: &achieved})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats.Track(outcomes))
	}
}

// GetTodaySummary evaluates today's spend against the standing daily goal.
func GetTodaySummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		status, err := db.GetDailyStatus(r.Context(), pool, userID, today)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get today's status")
			http.Error(w, "failed to get today summary", http.StatusInternalServerError)
			return
		}

		var totalSpent int64
		var dailyGoal *int64
		hasSpending := false
		if status != nil {
			totalSpent = status.TotalAmount
			dailyGoal = status.DailyGoal
			hasSpending = status.HasSpending
		} else {
			// Day not derived yet; fall back to the standing goal so the
			// client still sees its budget.
			goal, err := db.GetUserGoal(r.Context(), pool, userID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user goal for today summary")
				http.Error(w, "failed to get today summary", http.StatusInternalServerError)
				return
			}
			if goal != nil {
				dailyGoal = &goal.DailyGoal
			}
		}

		eval := stats.EvaluateDay(totalSpent, dailyGoal)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"date":                today.Format("2006-01-02"),
			"has_spending":        hasSpending,
			"total_amount":        totalSpent,
			"daily_goal":          dailyGoal,
			"is_goal_achieved":    eval.IsGoalAchieved,
			"remaining_budget":    eval.RemainingBudget,
			"difference":          eval.Difference,
			"spending_percentage": eval.SpendingPercentage,
		})
	}
}
