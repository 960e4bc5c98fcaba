package postgres

import (
	"context"
	"errors"
	"fmt"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, name, target_amount::text, current_amount::text, icon, color, currency, created_at, updated_at`

// GoalRepo implements ports.GoalRepository.
type GoalRepo struct {
	pool Pool
}

// NewGoalRepo creates a new GoalRepo.
func NewGoalRepo(pool Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		g               domain.Goal
		target, current string
	)
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &target, &current,
		&g.Icon, &g.Color, &g.Currency, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if g.TargetAmount, err = parseMoney("target_amount", target); err != nil {
		return nil, err
	}
	if g.CurrentAmount, err = parseMoney("current_amount", current); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a new goal and fills in its generated ID and timestamps.
func (r *GoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (user_id, name, target_amount, current_amount, icon, color, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		g.UserID, g.Name, moneyArg(g.TargetAmount), moneyArg(g.CurrentAmount),
		g.Icon, g.Color, g.Currency,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetByID fetches a goal by ID (without locking).
func (r *GoalRepo) GetByID(ctx context.Context, id int64) (*domain.Goal, error) {
	g, err := scanGoal(r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal by id: %w", err)
	}
	return g, nil
}

// ListByUser returns all goals owned by userID, oldest first.
func (r *GoalRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Goal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]domain.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// Update writes the user-editable columns of g. CurrentAmount is only
// changed through UpdateCurrentAmount.
func (r *GoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	query := `UPDATE goals
		SET name = $1, target_amount = $2, icon = $3, color = $4, currency = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		g.Name, moneyArg(g.TargetAmount), g.Icon, g.Color, g.Currency, g.ID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("goal not found: %d", g.ID)
		}
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// Delete removes a goal.
func (r *GoalRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %d", id)
	}
	return nil
}

// GetByIDForUpdate fetches a goal by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *GoalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Goal, error) {
	g, err := scanGoal(tx.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal for update by id: %w", err)
	}
	return g, nil
}

// UpdateCurrentAmount sets a goal's accumulated amount within a transaction.
func (r *GoalRepo) UpdateCurrentAmount(ctx context.Context, tx pgx.Tx, goalID int64, amount decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE goals SET current_amount = $1, updated_at = NOW() WHERE id = $2`,
		moneyArg(amount), goalID,
	)
	if err != nil {
		return fmt.Errorf("update goal amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %d", goalID)
	}
	return nil
}
