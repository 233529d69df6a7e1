package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	cache "spindon-server/src/db"
	db "spindon-server/src/db/sql"
	"spindon-server/src/models"
	"spindon-server/src/util"
)

func GetMe(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

// UpdateUser replaces the profile wholesale. Fields left empty keep their
// stored value; a new password is re-hashed before it is written.
func UpdateUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Email    string `json:"email"`
			Nickname string `json:"nickname"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		current, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user for update")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		email := current.Email
		if req.Email != "" {
			email = strings.TrimSpace(req.Email)
			if !util.ValidateEmail(email) {
				http.Error(w, "invalid email format", http.StatusBadRequest)
				return
			}
		}

		nickname := current.Nickname
		if req.Nickname != "" {
			nickname = strings.TrimSpace(req.Nickname)
			if !util.ValidateNickname(nickname) {
				http.Error(w, "nickname must be between 2 and 20 characters", http.StatusBadRequest)
				return
			}
		}

		passwordHash := string(current.PasswordHash)
		if req.Password != "" {
			if !util.ValidatePassword(req.Password) {
				http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
				return
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("failed to hash password")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			passwordHash = string(hashed)
		}

		user, err := db.UpdateUser(r.Context(), pool, userID, email, nickname, passwordHash)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to update user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

func DeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		if err := db.DeleteUser(r.Context(), pool, userID); err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to delete user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// The cascade removed the user's categories, so any cached averages
		// for them are stale. The keys carry no user id, so drop them all.
		cache.ClearAllAverageCaches()

		log.Info().Int64("user_id", userID).Msg("user deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetUserLevel returns just the gamification fields.
func GetUserLevel(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user level")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.UserLevel{Level: user.Level, LevelPoint: user.LevelPoint})
	}
}
