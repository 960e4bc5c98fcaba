package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money renders an amount as a plain JSON number with two decimal places.
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=254"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
	FullName *string `json:"full_name,omitempty" binding:"omitempty,max=100"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// WalletCreateRequest is the request body for POST /wallet/.
type WalletCreateRequest struct {
	Name     string           `json:"name" binding:"required,max=100"`
	Balance  *decimal.Decimal `json:"balance,omitempty" binding:"omitempty,money"`
	Currency string           `json:"currency,omitempty" binding:"omitempty,currency"`
	IconName *string          `json:"icon_name,omitempty" binding:"omitempty,max=64"`
	ColorHex *string          `json:"color_hex,omitempty" binding:"omitempty,hex_color"`
}

// AssignGoalRequest is the request body for PATCH /wallet/:id/assign-goal.
type AssignGoalRequest struct {
	GoalID  int64           `json:"goal_id" binding:"required,gt=0"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    string          `json:"date" binding:"required"`
	Comment *string         `json:"comment,omitempty" binding:"omitempty,max=255"`
}

// AssignExpenseRequest is the request body for PATCH /wallet/:id/assign-expense.
type AssignExpenseRequest struct {
	ExpenseID int64           `json:"expense_id" binding:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Comment   *string         `json:"comment,omitempty" binding:"omitempty,max=255"`
}

// GoalRequest is the request body for goal create and update.
type GoalRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required,money"`
	Icon         string          `json:"icon" binding:"max=64"`
	Color        string          `json:"color" binding:"max=32"`
	Currency     string          `json:"currency,omitempty" binding:"omitempty,currency"`
}

// ExpenseRequest is the request body for expense create and update.
type ExpenseRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Icon        string  `json:"icon" binding:"max=64"`
	Color       string  `json:"color" binding:"max=32"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	CategoryID  *int64  `json:"category_id,omitempty" binding:"omitempty,gt=0"`
	WalletID    *int64  `json:"wallet_id,omitempty" binding:"omitempty,gt=0"`
}

// WalletResponse is the response body for a wallet.
type WalletResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   Money     `json:"balance"`
	Currency  string    `json:"currency"`
	IconName  *string   `json:"icon_name"`
	ColorHex  *string   `json:"color_hex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoalResponse is the response body for a goal.
type GoalResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  Money     `json:"target_amount"`
	CurrentAmount Money     `json:"current_amount"`
	GrowthStage   int       `json:"growth_stage"`
	IsReached     bool      `json:"is_reached"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExpenseResponse is the response body for an expense.
type ExpenseResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Description *string   `json:"description"`
	CategoryID  *int64    `json:"category_id"`
	WalletID    *int64    `json:"wallet_id"`
	Amount      Money     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
