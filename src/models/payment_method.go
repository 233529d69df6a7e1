package models

import "time"

type PaymentMethod struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CardName  *string   `json:"card_name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}
