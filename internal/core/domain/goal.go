package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// growthStages is the number of steps the client uses to render goal progress (0-9).
const growthStages = 9

// Goal is a savings target that accumulates funds transferred from wallets.
type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Progress returns current/target clamped to [0, 1].
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount)
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p
}

// GrowthStage maps progress onto 0..9.
func (g *Goal) GrowthStage() int {
	return int(g.Progress().Mul(decimal.NewFromInt(growthStages)).IntPart())
}

// IsReached reports whether the target has been met.
func (g *Goal) IsReached() bool {
	return g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// GoalInput carries the writable fields of a goal for create and update.
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Icon         string
	Color        string
	Currency     string
}

// Normalize fills defaults and checks every field.
func (in *GoalInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkName(in.Name); err != nil {
		return err
	}
	if !in.TargetAmount.IsPositive() {
		return fieldErr("target_amount", "must be greater than zero")
	}
	target, err := FitAmount("target_amount", in.TargetAmount)
	if err != nil {
		return err
	}
	in.TargetAmount = target
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
	if !currencyRe.MatchString(in.Currency) {
		return fieldErr("currency", "must be a 3-letter uppercase code")
	}
	return nil
}
