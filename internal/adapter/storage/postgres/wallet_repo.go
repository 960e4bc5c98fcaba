package postgres

import (
	"context"
	"errors"
	"fmt"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, name, balance::text, currency, icon_name, color_hex, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w       domain.Wallet
		balance string
	)
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &balance, &w.Currency,
		&w.IconName, &w.ColorHex, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b, err := parseMoney("balance", balance)
	if err != nil {
		return nil, err
	}
	w.Balance = b
	return &w, nil
}

// Create inserts a new wallet and fills in its generated ID and timestamps.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, name, balance, currency, icon_name, color_hex)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		w.UserID, w.Name, moneyArg(w.Balance), w.Currency, w.IconName, w.ColorHex,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by ID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// ListByUser returns all wallets owned by userID, oldest first.
func (r *WalletRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]domain.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return wallets, nil
}

// Delete removes a wallet.
func (r *WalletRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %d", id)
	}
	return nil
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update by id: %w", err)
	}
	return w, nil
}

// Update writes every mutable column of w within a transaction and
// refreshes its UpdatedAt.
func (r *WalletRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets
		SET name = $1, balance = $2, currency = $3, icon_name = $4, color_hex = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := tx.QueryRow(ctx, query,
		w.Name, moneyArg(w.Balance), w.Currency, w.IconName, w.ColorHex, w.ID,
	).Scan(&w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("wallet not found: %d", w.ID)
		}
		return fmt.Errorf("update wallet: %w", err)
	}
	return nil
}

// UpdateBalance sets a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID int64, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, moneyArg(balance), walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %d", walletID)
	}
	return nil
}
