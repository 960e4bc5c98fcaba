package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxDescriptionLen = 500

// Expense is a spending category that accumulates funds allocated from wallets.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Description *string         `json:"description,omitempty"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	WalletID    *int64          `json:"wallet_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseInput carries the writable fields of an expense for create and update.
type ExpenseInput struct {
	Name        string
	Icon        string
	Color       string
	Description *string
	CategoryID  *int64
	WalletID    *int64
}

// Normalize trims and checks every field.
func (in *ExpenseInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkName(in.Name); err != nil {
		return err
	}
	if in.Description != nil && len(*in.Description) > maxDescriptionLen {
		return fieldErr("description", "too long")
	}
	return nil
}
