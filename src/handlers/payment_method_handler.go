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
	"spindon-server/src/models"
)

type paymentMethodRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	CardName *string `json:"card_name"`
	Color    string  `json:"color"`
	Icon     *string `json:"icon"`
}

func (req *paymentMethodRequest) toModel(userID int64) (*models.PaymentMethod, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Type == "" {
		return nil, errors.New("type is required")
	}
	return &models.PaymentMethod{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		CardName: req.CardName,
		Color:    req.Color,
		Icon:     req.Icon,
	}, nil
}

func CreatePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req paymentMethodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		pm, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := db.CreatePaymentMethod(r.Context(), pool, pm)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create payment method")
			http.Error(w, "failed to create payment method", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetPaymentMethods(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		methods, err := db.GetPaymentMethodsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get payment methods")
			http.Error(w, "failed to get payment methods", http.StatusInternalServerError)
			return
		}
		if methods == nil {
			methods = []models.PaymentMethod{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(methods)
	}
}

func UpdatePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "payment_method_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid payment method id", http.StatusBadRequest)
			return
		}
		var req paymentMethodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		pm, err := req.toModel(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pm.ID = id

		updated, err := db.UpdatePaymentMethod(r.Context(), pool, pm)
		if err != nil {
			if errors.Is(err, db.ErrPaymentMethodNotFound) {
				http.Error(w, "payment method not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("payment_method_id", id).Msg("failed to update payment method")
			http.Error(w, "failed to update payment method", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeletePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := strconv.ParseInt(chi.URLParam(r, "payment_method_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid payment method id", http.StatusBadRequest)
			return
		}
		if err := db.DeletePaymentMethod(r.Context(), pool, userID, id); err != nil {
			if errors.Is(err, db.ErrPaymentMethodNotFound) {
				http.Error(w, "payment method not found", http.StatusNotFound)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Int64("payment_method_id", id).Msg("failed to delete payment method")
			http.Error(w, "failed to delete payment method", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
