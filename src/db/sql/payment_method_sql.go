package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spindon-server/src/models"
)

var ErrPaymentMethodNotFound = errors.New("payment method not found")

func CreatePaymentMethod(ctx context.Context, pool *pgxpool.Pool, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	query := `
		INSERT INTO payment_methods (user_id, name, type, card_name, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, name, type, card_name, color, icon, is_default, created_at
	`
	var created models.PaymentMethod
	err := pool.QueryRow(ctx, query, pm.UserID, pm.Name, pm.Type, pm.CardName, pm.Color, pm.Icon).Scan(
		&created.ID, &created.UserID, &created.Name, &created.Type, &created.CardName,
		&created.Color, &created.Icon, &created.IsDefault, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return &created, nil
}

func GetPaymentMethodByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.PaymentMethod, error) {
	query := `
		SELECT id, user_id, name, type, card_name, color, icon, is_default, created_at
		FROM payment_methods
		WHERE id = $1 AND user_id = $2
	`
	var pm models.PaymentMethod
	err := pool.QueryRow(ctx, query, id, userID).Scan(
		&pm.ID, &pm.UserID, &pm.Name, &pm.Type, &pm.CardName,
		&pm.Color, &pm.Icon, &pm.IsDefault, &pm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &pm, nil
}

func GetPaymentMethodsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.PaymentMethod, error) {
	query := `
		SELECT id, user_id, name, type, card_name, color, icon, is_default, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.Name, &pm.Type, &pm.CardName, &pm.Color, &pm.Icon, &pm.IsDefault, &pm.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

func UpdatePaymentMethod(ctx context.Context, pool *pgxpool.Pool, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	query := `
		UPDATE payment_methods
		SET name = $1, type = $2, card_name = $3, color = $4, icon = $5
		WHERE id = $6 AND user_id = $7
		RETURNING id, user_id, name, type, card_name, color, icon, is_default, created_at
	`
	var updated models.PaymentMethod
	err := pool.QueryRow(ctx, query, pm.Name, pm.Type, pm.CardName, pm.Color, pm.Icon, pm.ID, pm.UserID).Scan(
		&updated.ID, &updated.UserID, &updated.Name, &updated.Type, &updated.CardName,
		&updated.Color, &updated.Icon, &updated.IsDefault, &updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	return &updated, nil
}

func DeletePaymentMethod(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}
