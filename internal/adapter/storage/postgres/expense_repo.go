package postgres

import (
	"context"
	"errors"
	"fmt"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, user_id, name, icon, color, description, category_id, wallet_id, amount::text, created_at, updated_at`

// ExpenseRepo implements ports.ExpenseRepository.
type ExpenseRepo struct {
	pool Pool
}

// NewExpenseRepo creates a new ExpenseRepo.
func NewExpenseRepo(pool Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e      domain.Expense
		amount string
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Icon, &e.Color, &e.Description,
		&e.CategoryID, &e.WalletID, &amount, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a, err := parseMoney("amount", amount)
	if err != nil {
		return nil, err
	}
	e.Amount = a
	return &e, nil
}

// Create inserts a new expense and fills in its generated ID and timestamps.
func (r *ExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	query := `INSERT INTO expenses (user_id, name, icon, color, description, category_id, wallet_id, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		e.UserID, e.Name, e.Icon, e.Color, e.Description,
		e.CategoryID, e.WalletID, moneyArg(e.Amount),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID fetches an expense by ID (without locking).
func (r *ExpenseRepo) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

// ListByUser returns all expenses owned by userID, oldest first.
func (r *ExpenseRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Update writes the user-editable columns of e. Amount is only changed
// through UpdateAmount.
func (r *ExpenseRepo) Update(ctx context.Context, e *domain.Expense) error {
	query := `UPDATE expenses
		SET name = $1, icon = $2, color = $3, description = $4, category_id = $5, wallet_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		e.Name, e.Icon, e.Color, e.Description, e.CategoryID, e.WalletID, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("expense not found: %d", e.ID)
		}
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete removes an expense.
func (r *ExpenseRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %d", id)
	}
	return nil
}

// GetByIDForUpdate fetches an expense by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *ExpenseRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Expense, error) {
	e, err := scanExpense(tx.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense for update by id: %w", err)
	}
	return e, nil
}

// UpdateAmount sets an expense's accumulated amount within a transaction.
func (r *ExpenseRepo) UpdateAmount(ctx context.Context, tx pgx.Tx, expenseID int64, amount decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE expenses SET amount = $1, updated_at = NOW() WHERE id = $2`,
		moneyArg(amount), expenseID,
	)
	if err != nil {
		return fmt.Errorf("update expense amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %d", expenseID)
	}
	return nil
}
