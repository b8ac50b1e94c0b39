package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses. Anything outside
// this set is treated as an unexpected failure and answered with 500.
var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnconfirmed     = errors.New("unconfirmed account")
	ErrInvalidPassword = errors.New("invalid password")
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrExpenseNotFound = errors.New("expense not found")
)
