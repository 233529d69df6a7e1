package models

import "time"

// Spending is a single expense record. Exactly one of the class flags
// (avoidable, fixed, necessary) may be set; a record with none of them is a
// general spend. Joined display fields are populated by the month listing
// query and omitted elsewhere.
type Spending struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CategoryID      *int64    `json:"category_id"`
	PaymentMethodID *int64    `json:"payment_method_id"`
	Amount          int64     `json:"amount"`
	Title           string    `json:"title"`
	Memo            *string   `json:"memo"`
	Location        *string   `json:"location"`
	Companions      *string   `json:"companions"`
	SpentDate       time.Time `json:"spent_date"`
	SpentTime       *string   `json:"spent_time"`
	Avoidable       bool      `json:"avoidable"`
	Fixed           bool      `json:"fixed"`
	Necessary       bool      `json:"necessary"`
	Favorite        bool      `json:"favorite"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	CategoryName      *string `json:"category_name,omitempty"`
	PaymentMethodName *string `json:"payment_method_name,omitempty"`
	PaymentMethodType *string `json:"payment_method_type,omitempty"`
}
