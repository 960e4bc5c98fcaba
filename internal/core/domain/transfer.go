package domain

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const maxCommentLen = 255

// DestinationKind names the kind of row a transfer credits.
type DestinationKind string

const (
	DestinationGoal    DestinationKind = "goal"
	DestinationExpense DestinationKind = "expense"
)

// Valid reports whether k is a known destination kind.
func (k DestinationKind) Valid() bool {
	return k == DestinationGoal || k == DestinationExpense
}

// TransferRequest moves Amount from a wallet into a goal or an expense.
// It is operation input only and is never persisted.
type TransferRequest struct {
	UserID          int64
	WalletID        int64
	DestinationKind DestinationKind
	DestinationID   int64
	Amount          decimal.Decimal
	Date            string
	Comment         *string
}

// Validate checks the request shape. It never touches storage.
func (r TransferRequest) Validate() error {
	if !r.DestinationKind.Valid() {
		return fieldErr("destination", "must be goal or expense")
	}
	if !r.Amount.IsPositive() {
		return fieldErr("amount", "must be greater than zero")
	}
	if _, err := FitAmount("amount", r.Amount); err != nil {
		return err
	}
	if r.Date != "" {
		if _, err := ParseTransferDate(r.Date); err != nil {
			return fieldErr("date", "must be YYYY-MM-DD or RFC 3339")
		}
	}
	if r.Comment != nil && utf8.RuneCountInString(*r.Comment) > maxCommentLen {
		return fieldErr("comment", "too long")
	}
	return nil
}

// ParseTransferDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseTransferDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
