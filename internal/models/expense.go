package models

import "time"

// Expense is a line item belonging to exactly one budget. Access to an
// expense is gated transitively through its budget's owner.
type Expense struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	BudgetID  int64     `json:"budgetId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
