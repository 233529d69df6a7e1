package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "spindon-server/src/db/sql"
	"spindon-server/src/metrics"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name  string  `json:"name"`
			Color string  `json:"color"`
			Icon  *string `json:"icon"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		category, err := db.CreateCategory(r.Context(), pool, userID, req.Name, req.Color, req.Icon)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create category")
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}

		// The popularity ranking counts every create, including duplicates of
		// default names; failures here must not fail the create.
		if err := db.IncrementPopularCategory(r.Context(), pool, category.Name); err != nil {
			log.Warn().Err(err).Str("name", category.Name).Msg("failed to bump popular category")
		}

		metrics.CategoriesCreated.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(category)
	}
}

func GetCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categories, err := db.GetCategoriesForUser(r.Context(), pool, userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get categories")
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "category_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteCategory(r.Context(), pool, userID, id); err != nil {
			if errors.Is(err, db.ErrCategoryNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("category_id", id).Msg("failed to delete category")
			http.Error(w, "failed to delete category", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetPopularCategories is public: the ranking is shared across users.
func GetPopularCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		popular, err := db.GetPopularCategories(r.Context(), pool)
		if err != nil {
			log.Error().Err(err).Msg("failed to get popular categories")
			http.Error(w, "failed to get popular categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(popular)
	}
}
