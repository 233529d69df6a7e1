package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	db "spindon-server/src/db/sql"
	"spindon-server/src/metrics"
	"spindon-server/src/util"
)

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Nickname string `json:"nickname"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Msg("failed to decode register request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Nickname = strings.TrimSpace(req.Nickname)

		if !util.ValidateEmail(req.Email) {
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}
		if !util.ValidateNickname(req.Nickname) {
			http.Error(w, "nickname must be between 2 and 20 characters", http.StatusBadRequest)
			return
		}
		if !util.ValidatePassword(req.Password) {
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		exists, err := db.UserExists(r.Context(), pool, req.Email, req.Nickname)
		if err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("failed to check existing user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if exists {
			http.Error(w, "email or nickname already exists", http.StatusConflict)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req.Email, req.Nickname, string(hashedPassword))
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "email or nickname already exists", http.StatusConflict)
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("failed to create user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		metrics.UserRegistrations.Inc()
		log.Info().Int64("user_id", user.ID).Str("nickname", user.Nickname).Msg("user registered")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(user)
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, strings.TrimSpace(credentials.Email))
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				metrics.LoginAttempts.WithLabelValues("failure").Inc()
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			log.Error().Err(err).Msg("failed to look up user for login")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   user.ID,
			"email": user.Email,
			"exp":   time.Now().Add(time.Hour * 168).Unix(),
		})
		tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to sign token")
			http.Error(w, "error generating token", http.StatusInternalServerError)
			return
		}

		metrics.LoginAttempts.WithLabelValues("success").Inc()
		log.Info().Int64("user_id", user.ID).Msg("user logged in")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": tokenString,
		})
	}
}
