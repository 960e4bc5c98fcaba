package ports

import (
	"context"
	"time"

	"growfi-backend/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID int64) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// TokenRevocationStore remembers logged-out tokens until they expire.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// --- Service Ports (Business Logic) ---

// TransferService moves funds from a wallet into a goal or an expense.
type TransferService interface {
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Wallet, error)
}

// WalletService defines owner-scoped wallet CRUD.
type WalletService interface {
	List(ctx context.Context, userID int64) ([]domain.Wallet, error)
	Get(ctx context.Context, userID, walletID int64) (*domain.Wallet, error)
	Create(ctx context.Context, userID int64, in domain.WalletCreate) (*domain.Wallet, error)
	Update(ctx context.Context, userID, walletID int64, patch domain.WalletPatch) (*domain.Wallet, error)
	Delete(ctx context.Context, userID, walletID int64) (*domain.Wallet, error)
}

// GoalService defines owner-scoped goal CRUD.
type GoalService interface {
	List(ctx context.Context, userID int64) ([]domain.Goal, error)
	Get(ctx context.Context, userID, goalID int64) (*domain.Goal, error)
	Create(ctx context.Context, userID int64, in domain.GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, userID, goalID int64, in domain.GoalInput) (*domain.Goal, error)
	Delete(ctx context.Context, userID, goalID int64) (*domain.Goal, error)
}

// ExpenseService defines owner-scoped expense CRUD.
type ExpenseService interface {
	List(ctx context.Context, userID int64) ([]domain.Expense, error)
	Get(ctx context.Context, userID, expenseID int64) (*domain.Expense, error)
	Create(ctx context.Context, userID int64, in domain.ExpenseInput) (*domain.Expense, error)
	Update(ctx context.Context, userID, expenseID int64, in domain.ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, userID, expenseID int64) (*domain.Expense, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
	Logout(ctx context.Context, claims *TokenClaims) error
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Email    string
	Password string
	FullName *string
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
