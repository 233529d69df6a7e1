package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash []byte    `json:"-"`
	Level        int       `json:"level"`
	LevelPoint   int       `json:"level_point"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserLevel struct {
	Level      int `json:"level"`
	LevelPoint int `json:"level_point"`
}
