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

	cache "spindon-server/src/db"
	db "spindon-server/src/db/sql"
	"spindon-server/src/metrics"
	"spindon-server/src/models"
	"spindon-server/src/stats"
)

type spendingRequest struct {
	CategoryID      *int64  `json:"category_id"`
	PaymentMethodID *int64  `json:"payment_method_id"`
	Amount          int64   `json:"amount"`
	Title           string  `json:"title"`
	Memo            *string `json:"memo"`
	Location        *string `json:"location"`
	Companions      *string `json:"companions"`
	SpentDate       string  `json:"spent_date"`
	SpentTime       *string `json:"spent_time"`
	Avoidable       bool    `json:"avoidable"`
	Fixed           bool    `json:"fixed"`
	Necessary       bool    `json:"necessary"`
	Favorite        bool    `json:"favorite"`
}

func (req *spendingRequest) toModel(userID int64) (*models.Spending, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	spentDate, err := time.Parse("2006-01-02", req.SpentDate)
	if err != nil {
		return nil, fmt.Errorf("spent_date must be YYYY-MM-DD")
	}
	return &models.Spending{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Title:           req.Title,
		Memo:            req.Memo,
		Location:        req.Location,
		Companions:      req.Companions,
		SpentDate:       spentDate,
		SpentTime:       req.SpentTime,
		Avoidable:       req.Avoidable,
		Fixed:           req.Fixed,
		Necessary:       req.Necessary,
		Favorite:        req.Favorite,
	}, nil
}

func categoryAverageCacheKey(categoryID int64) string {
	return "category_average_" + strconv.FormatInt(categoryID, 10)
}

// afterSpendingWrite re-derives the day's status and drops the stale category
// average. Errors are logged but do not fail the write that already happened.
func afterSpendingWrite(r *http.Request, pool *pgxpool.Pool, userID int64, date time.Time, categoryID *int64) {
	if _, err := db.RecomputeDailyStatus(r.Context(), pool, userID, date); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Time("date", date).Msg("failed to recompute daily status")
	}
	if categoryID != nil {
		cache.DelAverageCache(categoryAverageCacheKey(*categoryID))
	}
}

func CreateSpending(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req spendingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		spending, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := db.CreateSpending(r.Context(), pool, spending)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create spending")
			http.Error(w, "failed to create spending", http.StatusInternalServerError)
			return
		}

		level, err := db.AddLevelPoints(r.Context(), pool, userID, stats.PointsForAmount(created.Amount))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to add level points")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		afterSpendingWrite(r, pool, userID, created.SpentDate, created.CategoryID)
		metrics.SpendingsCreated.Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"spending": created,
			"level":    level,
		})
	}
}

// GetSpendings lists a month of spendings; without year/month query params it
// returns everything, newest first.
func GetSpendings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var (
			spendings []models.Spending
			err       error
		)
		yearStr, monthStr := r.URL.Query().Get("year"), r.URL.Query().Get("month")
		if yearStr != "" || monthStr != "" {
			year, month, perr := parseYearMonth(yearStr, monthStr)
			if perr != nil {
				http.Error(w, perr.Error(), http.StatusBadRequest)
				return
			}
			start, end := stats.MonthRange(year, month)
			spendings, err = db.GetSpendingsInRange(r.Context(), pool, userID, start, end)
		} else {
			spendings, err = db.GetAllSpendingsForUser(r.Context(), pool, userID)
		}
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get spendings")
			http.Error(w, "failed to get spendings", http.StatusInternalServerError)
			return
		}
		if spendings == nil {
			spendings = []models.Spending{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(spendings)
	}
}

func GetSpendingByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "spending_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid spending id", http.StatusBadRequest)
			return
		}
		spending, err := db.GetSpendingByID(r.Context(), pool, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrSpendingNotFound) {
				http.Error(w, "spending not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("spending_id", id).Msg("failed to get spending")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(spending)
	}
}

func UpdateSpending(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "spending_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid spending id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetSpendingByID(r.Context(), pool, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrSpendingNotFound) {
				http.Error(w, "spending not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("spending_id", id).Msg("failed to load spending for update")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var req spendingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		spending, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		spending.ID = id

		updated, err := db.UpdateSpending(r.Context(), pool, spending)
		if err != nil {
			if errors.Is(err, db.ErrSpendingNotFound) {
				http.Error(w, "spending not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("spending_id", id).Msg("failed to update spending")
			http.Error(w, "failed to update spending", http.StatusInternalServerError)
			return
		}

		// A move between dates leaves a stale status on the old day.
		if !existing.SpentDate.Equal(updated.SpentDate) {
			afterSpendingWrite(r, pool, userID, existing.SpentDate, existing.CategoryID)
		} else if existing.CategoryID != nil && (updated.CategoryID == nil || *existing.CategoryID != *updated.CategoryID) {
			cache.DelAverageCache(categoryAverageCacheKey(*existing.CategoryID))
		}
		afterSpendingWrite(r, pool, userID, updated.SpentDate, updated.CategoryID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteSpending(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "spending_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid spending id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetSpendingByID(r.Context(), pool, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrSpendingNotFound) {
				http.Error(w, "spending not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("spending_id", id).Msg("failed to load spending for delete")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := db.DeleteSpending(r.Context(), pool, userID, id); err != nil {
			if errors.Is(err, db.ErrSpendingNotFound) {
				http.Error(w, "spending not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("spending_id", id).Msg("failed to delete spending")
			http.Error(w, "failed to delete spending", http.StatusInternalServerError)
			return
		}

		afterSpendingWrite(r, pool, userID, existing.SpentDate, existing.CategoryID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetSpendingStatistics aggregates one month of spendings into totals, class
// splits, per-category and per-payment-method breakdowns, and daily sums.
func GetSpendingStatistics(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start, end := stats.MonthRange(year, month)
		spendings, err := db.GetSpendingsInRange(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get spendings for statistics")
			http.Error(w, "failed to get statistics", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats.Summarize(spendings))
	}
}

// GetCategoryAverage returns the floored mean amount recorded against one
// category, cached until the next write that touches the category.
func GetCategoryAverage(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := strconv.ParseInt(chi.URLParam(r, "category_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if _, err := db.GetCategoryByID(r.Context(), pool, categoryID); err != nil {
			if errors.Is(err, db.ErrCategoryNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("category_id", categoryID).Msg("failed to get category")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		key := categoryAverageCacheKey(categoryID)
		if cached, found := cache.Cache.Get(key); found {
			if avg, ok := cached.(int64); ok {
				writeCategoryAverage(w, categoryID, avg)
				return
			}
		}

		amounts, err := db.GetCategoryAmounts(r.Context(), pool, categoryID)
		if err != nil {
			log.Error().Err(err).Int64("category_id", categoryID).Msg("failed to get category amounts")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		avg := stats.Average(amounts)
		cache.SetAverageCache(key, avg)
		writeCategoryAverage(w, categoryID, avg)
	}
}

func writeCategoryAverage(w http.ResponseWriter, categoryID, avg int64) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{
		"category_id":    categoryID,
		"average_amount": avg,
	})
}

func parseYearMonth(yearStr, monthStr string) (int, int, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, month, nil
}
