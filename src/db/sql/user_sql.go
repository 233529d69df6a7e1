package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spindon-server/src/models"
)

var ErrUserNotFound = errors.New("user not found")

func CreateUser(ctx context.Context, pool *pgxpool.Pool, email, nickname, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, nickname, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, nickname, password_hash, level, level_point, created_at, updated_at
	`
	var u models.User
	err := pool.QueryRow(ctx, query, email, nickname, passwordHash).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Level, &u.LevelPoint, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int64) (*models.User, error) {
	query := `
		SELECT id, email, nickname, password_hash, level, level_point, created_at, updated_at
		FROM users WHERE id = $1
	`
	var u models.User
	err := pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Level, &u.LevelPoint, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &u, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	query := `
		SELECT id, email, nickname, password_hash, level, level_point, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Level, &u.LevelPoint, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &u, nil
}

func UserExists(ctx context.Context, pool *pgxpool.Pool, email, nickname string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR nickname = $2)`
	var exists bool
	if err := pool.QueryRow(ctx, query, email, nickname).Scan(&exists); err != nil {
		return false, fmt.Errorf("query error: %w", err)
	}
	return exists, nil
}

func UpdateUser(ctx context.Context, pool *pgxpool.Pool, id int64, email, nickname, passwordHash string) (*models.User, error) {
	query := `
		UPDATE users
		SET email = $1, nickname = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, email, nickname, password_hash, level, level_point, created_at, updated_at
	`
	var u models.User
	err := pool.QueryRow(ctx, query, email, nickname, passwordHash, id).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Level, &u.LevelPoint, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

func DeleteUser(ctx context.Context, pool *pgxpool.Pool, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddLevelPoints applies a point delta with rollover in a single statement,
// so concurrent spending submissions for the same user cannot lose updates.
// Integer division handles any number of rollovers at once and the result
// keeps level_point within [0, 100).
func AddLevelPoints(ctx context.Context, pool *pgxpool.Pool, userID int64, points int) (*models.UserLevel, error) {
	query := `
		UPDATE users
		SET level = level + (level_point + $2) / 100,
		    level_point = (level_point + $2) % 100,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING level, level_point
	`
	var lv models.UserLevel
	err := pool.QueryRow(ctx, query, userID, points).Scan(&lv.Level, &lv.LevelPoint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add level points: %w", err)
	}
	return &lv, nil
}
