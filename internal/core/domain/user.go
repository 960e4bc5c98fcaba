package domain

import (
	"errors"
	"time"
)

// User is an account holder. Every wallet, goal and expense belongs to one user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     *string   `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"` // Never expose
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrEmailTaken is returned by the user store when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")
