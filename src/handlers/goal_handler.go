package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	db "spindon-server/src/db/sql"
	"spindon-server/src/metrics"
	"spindon-server/src/models"
	"spindon-server/src/stats"
)

func CreateSpendingGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Amount   int64  `json:"amount"`
			Type     string `json:"type"`
			GoalDate string `json:"goal_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		goalType, err := parseGoalType(req.Type)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		goalDate, err := time.Parse("2006-01-02", req.GoalDate)
		if err != nil {
			http.Error(w, "goal_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		goal, err := db.CreateSpendingGoal(r.Context(), pool, &models.SpendingGoal{
			UserID:   userID,
			Amount:   req.Amount,
			Type:     goalType,
			GoalDate: goalDate,
		})
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create spending goal")
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}

		metrics.GoalsCreated.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(goal)
	}
}

func CreateCategoryGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var req struct {
			Amount   int64  `json:"amount"`
			Type     string `json:"type"`
			GoalDate string `json:"goal_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		goalType, err := parseGoalType(req.Type)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		goalDate, err := time.Parse("2006-01-02", req.GoalDate)
		if err != nil {
			http.Error(w, "goal_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, categoryID)
		if err != nil {
			if errors.Is(err, db.ErrCategoryNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("category_id", categoryID).Msg("failed to get category for goal")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if category.UserID == nil || *category.UserID != userID {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		goal, err := db.CreateCategoryGoal(r.Context(), pool, &models.CategoryGoal{
			CategoryID: categoryID,
			Amount:     req.Amount,
			Type:       goalType,
			GoalDate:   goalDate,
		})
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create category goal")
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}

		metrics.GoalsCreated.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(goal)
	}
}

// GetGoals returns the user's spending goals and category goals together.
func GetGoals(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var (
			spendingGoals []models.SpendingGoal
			categoryGoals []models.CategoryGoal
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			spendingGoals, err = db.GetSpendingGoalsForUser(ctx, pool, userID)
			return err
		})
		g.Go(func() error {
			var err error
			categoryGoals, err = db.GetCategoryGoalsForUser(ctx, pool, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get goals")
			http.Error(w, "failed to get goals", http.StatusInternalServerError)
			return
		}

		if spendingGoals == nil {
			spendingGoals = []models.SpendingGoal{}
		}
		if categoryGoals == nil {
			categoryGoals = []models.CategoryGoal{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"spending_goals": spendingGoals,
			"category_goals": categoryGoals,
		})
	}
}

// GetGoalProgress reports how the month is tracking: the monthly goal with
// spent-so-far, plus per-day goals with the matching daily sums.
func GetGoalProgress(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start, end := stats.MonthRange(year, month)

		var (
			goals     []models.SpendingGoal
			spendings []models.Spending
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			goals, err = db.GetSpendingGoalsInRange(ctx, pool, userID, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			spendings, err = db.GetSpendingsInRange(ctx, pool, userID, start, end)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get goal progress")
			http.Error(w, "failed to get goal progress", http.StatusInternalServerError)
			return
		}

		monthlyGoal, dailyGoals := stats.SplitGoals(goals)

		var totalSpent int64
		for _, sp := range spendings {
			totalSpent += sp.Amount
		}
		dailySpent := stats.DailyTotals(spendings)

		type dailyProgress struct {
			GoalDate    string `json:"goal_date"`
			GoalAmount  int64  `json:"goal_amount"`
			SpentAmount int64  `json:"spent_amount"`
			IsAchieved  bool   `json:"is_achieved"`
		}
		daily := make([]dailyProgress, 0, len(dailyGoals))
		for _, goal := range dailyGoals {
			date := goal.GoalDate.Format("2006-01-02")
			spent := dailySpent[date]
			daily = append(daily, dailyProgress{
				GoalDate:    date,
				GoalAmount:  goal.Amount,
				SpentAmount: spent,
				IsAchieved:  spent <= goal.Amount,
			})
		}

		type daySpend struct {
			Date   string `json:"date"`
			Amount int64  `json:"amount"`
		}
		spentByDay := make([]daySpend, 0, len(dailySpent))
		for _, date := range stats.SortedDates(dailySpent) {
			spentByDay = append(spentByDay, daySpend{Date: date, Amount: dailySpent[date]})
		}

		resp := map[string]interface{}{
			"total_spent": totalSpent,
			"daily_goals": daily,
			"daily_spent": spentByDay,
		}
		if monthlyGoal != nil {
			eval := stats.EvaluateDay(totalSpent, &monthlyGoal.Amount)
			resp["monthly_goal"] = map[string]interface{}{
				"goal_amount":         monthlyGoal.Amount,
				"spent_amount":        totalSpent,
				"remaining_budget":    eval.RemainingBudget,
				"spending_percentage": eval.SpendingPercentage,
				"is_achieved":         eval.IsGoalAchieved,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// GetUserGoal returns the standing daily goal with its inclusion flags; 404
// when the user never configured one.
func GetUserGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goal, err := db.GetUserGoal(r.Context(), pool, userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user goal")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if goal == nil {
			http.Error(w, "no user goal configured", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goal)
	}
}

// UpsertUserGoal creates or replaces the standing daily goal, then recomputes
// today's status so the change shows immediately.
func UpsertUserGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			DailyGoal        int64 `json:"daily_goal"`
			IncludeGeneral   *bool `json:"include_general"`
			IncludeFixed     *bool `json:"include_fixed"`
			IncludeNecessary *bool `json:"include_necessary"`
			IncludeAvoidable *bool `json:"include_avoidable"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.DailyGoal < 0 {
			http.Error(w, "daily_goal must not be negative", http.StatusBadRequest)
			return
		}

		include := func(flag *bool) bool { return flag == nil || *flag }
		goal, err := db.UpsertUserGoal(r.Context(), pool, &models.UserGoal{
			UserID:           userID,
			DailyGoal:        req.DailyGoal,
			IncludeGeneral:   include(req.IncludeGeneral),
			IncludeFixed:     include(req.IncludeFixed),
			IncludeNecessary: include(req.IncludeNecessary),
			IncludeAvoidable: include(req.IncludeAvoidable),
		})
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to upsert user goal")
			http.Error(w, "failed to save user goal", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if _, err := db.RecomputeDailyStatus(r.Context(), pool, userID, today); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to recompute status after goal change")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goal)
	}
}

func parseGoalType(s string) (models.GoalType, error) {
	switch models.GoalType(s) {
	case models.GoalTypeDaily:
		return models.GoalTypeDaily, nil
	case models.GoalTypeMonthly:
		return models.GoalTypeMonthly, nil
	default:
		return "", fmt.Errorf("type must be DAILY or MONTHLY")
	}
}
