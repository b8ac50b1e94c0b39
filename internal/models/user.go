package models

import "time"

// User represents an account in the system. The confirmation token is the
// single-use 6-character code handed out on registration and on
// forgot-password; it is cleared once consumed.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Token        string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
