package models

import "time"

type Income struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Amount     int64     `json:"amount"`
	Title      string    `json:"title"`
	Memo       *string   `json:"memo"`
	IncomeDate time.Time `json:"income_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
