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

type incomeRequest struct {
	Amount     int64   `json:"amount"`
	Title      string  `json:"title"`
	Memo       *string `json:"memo"`
	IncomeDate string  `json:"income_date"`
}

func (req *incomeRequest) toModel(userID int64) (*models.Income, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	incomeDate, err := time.Parse("2006-01-02", req.IncomeDate)
	if err != nil {
		return nil, fmt.Errorf("income_date must be YYYY-MM-DD")
	}
	return &models.Income{
		UserID:     userID,
		Amount:     req.Amount,
		Title:      req.Title,
		Memo:       req.Memo,
		IncomeDate: incomeDate,
	}, nil
}

func CreateIncome(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req incomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		income, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := db.CreateIncome(r.Context(), pool, income)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create income")
			http.Error(w, "failed to create income", http.StatusInternalServerError)
			return
		}

		metrics.IncomesCreated.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetIncomes(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start, end := stats.MonthRange(year, month)
		incomes, err := db.GetIncomesInRange(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get incomes")
			http.Error(w, "failed to get incomes", http.StatusInternalServerError)
			return
		}
		if incomes == nil {
			incomes = []models.Income{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(incomes)
	}
}

func UpdateIncome(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "income_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid income id", http.StatusBadRequest)
			return
		}
		var req incomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		income, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		income.ID = id

		updated, err := db.UpdateIncome(r.Context(), pool, income)
		if err != nil {
			if errors.Is(err, db.ErrIncomeNotFound) {
				http.Error(w, "income not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("income_id", id).Msg("failed to update income")
			http.Error(w, "failed to update income", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteIncome(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "income_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid income id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteIncome(r.Context(), pool, userID, id); err != nil {
			if errors.Is(err, db.ErrIncomeNotFound) {
				http.Error(w, "income not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("income_id", id).Msg("failed to delete income")
			http.Error(w, "failed to delete income", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetMonthlyBalance compares one month's income against its spending.
func GetMonthlyBalance(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		year, month, err := parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start, end := stats.MonthRange(year, month)

		var (
			incomes   []models.Income
			spendings []models.Spending
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			incomes, err = db.GetIncomesInRange(ctx, pool, userID, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			spendings, err = db.GetSpendingsInRange(ctx, pool, userID, start, end)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get monthly balance")
			http.Error(w, "failed to get monthly balance", http.StatusInternalServerError)
			return
		}

		incomeStats := stats.SummarizeIncomes(incomes)
		var totalSpent int64
		for _, sp := range spendings {
			totalSpent += sp.Amount
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"year":         year,
			"month":        month,
			"total_income": incomeStats.TotalAmount,
			"total_spent":  totalSpent,
			"balance":      incomeStats.TotalAmount - totalSpent,
			"income_count": incomeStats.TotalCount,
			"spend_count":  len(spendings),
		})
	}
}
