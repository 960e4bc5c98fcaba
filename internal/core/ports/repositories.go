package ports

import (
	"context"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// UserRepository defines persistence operations for users.
// Getters return nil, nil when the row does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside a unit of work and lock the row they read.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Wallet, error)
	Delete(ctx context.Context, id int64) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error)
	Update(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	UpdateBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error
}

// GoalRepository defines persistence operations for goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id int64) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id int64) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Goal, error)
	UpdateCurrentAmount(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id int64) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Expense, error)
	UpdateAmount(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor begins the unit of work a multi-row change runs in.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
