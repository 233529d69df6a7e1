package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	db "spindon-server/src/db/sql"
	"spindon-server/src/models"
	"spindon-server/src/stats"
)

// GetDashboard composes the month's headline numbers in one round trip:
// spending statistics, income totals, the goal calendar, and the recent
// streaks.
func GetDashboard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start, end := stats.MonthRange(year, month)

		var (
			spendings    []models.Spending
			incomes      []models.Income
			statuses     []models.DailySpendingStatus
			achievements []models.GoalAchievement
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			spendings, err = db.GetSpendingsInRange(ctx, pool, userID, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			incomes, err = db.GetIncomesInRange(ctx, pool, userID, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			statuses, err = db.GetStatusesInRange(ctx, pool, userID, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			achievements, err = db.GetAchievementsSince(ctx, pool, userID, time.Now().AddDate(0, 0, -30))
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to compose dashboard")
			http.Error(w, "failed to get dashboard", http.StatusInternalServerError)
			return
		}

		outcomes := make([]stats.DayOutcome, 0, len(achievements))
		for _, a := range achievements {
			achieved := a.IsAchieved
			outcomes = append(outcomes, stats.DayOutcome{Date: a.Date, Achieved: &achieved})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"year":               year,
			"month":              month,
			"spending":           stats.Summarize(spendings),
			"income":             stats.SummarizeIncomes(incomes),
			"goal_calendar":      stats.SummarizeMonthStatuses(year, month, statuses),
			"streaks":            stats.Track(outcomes),
			"recent_achievement": len(achievements),
		})
	}
}
