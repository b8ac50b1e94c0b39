package models

import "time"

// Budget is a named spending envelope owned by exactly one user.
type Budget struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	UserID    int64     `json:"userId"`
	Expenses  []Expense `json:"expenses,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
