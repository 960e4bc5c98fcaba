package service

import (
	"context"
	"fmt"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ExpenseServiceImpl implements ports.ExpenseService.
type ExpenseServiceImpl struct {
	expenseRepo ports.ExpenseRepository
	walletRepo  ports.WalletRepository
	log         zerolog.Logger
}

// NewExpenseService creates a new ExpenseServiceImpl. walletRepo is used to
// check that a linked wallet belongs to the same user.
func NewExpenseService(expenseRepo ports.ExpenseRepository, walletRepo ports.WalletRepository, log zerolog.Logger) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{expenseRepo: expenseRepo, walletRepo: walletRepo, log: log}
}

func (s *ExpenseServiceImpl) List(ctx context.Context, userID int64) ([]domain.Expense, error) {
	expenses, err := s.expenseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list expenses: %w", err))
	}
	return expenses, nil
}

func (s *ExpenseServiceImpl) Get(ctx context.Context, userID, expenseID int64) (*domain.Expense, error) {
	e, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get expense: %w", err))
	}
	if e == nil || e.UserID != userID {
		return nil, apperror.ErrNotFound("expense", expenseID)
	}
	return e, nil
}

// Create adds an expense with nothing allocated to it yet.
func (s *ExpenseServiceImpl) Create(ctx context.Context, userID int64, in domain.ExpenseInput) (*domain.Expense, error) {
	if err := s.checkInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	e := &domain.Expense{
		UserID:      userID,
		Name:        in.Name,
		Icon:        in.Icon,
		Color:       in.Color,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		WalletID:    in.WalletID,
		Amount:      decimal.Zero,
	}
	if err := s.expenseRepo.Create(ctx, e); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create expense: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("expense_id", e.ID).Msg("expense created")
	return e, nil
}

// Update replaces the editable fields. The allocated amount is left alone.
// The expense is resolved before the input so a foreign expense is always
// reported as a missing expense.
func (s *ExpenseServiceImpl) Update(ctx context.Context, userID, expenseID int64, in domain.ExpenseInput) (*domain.Expense, error) {
	e, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	e.Name = in.Name
	e.Icon = in.Icon
	e.Color = in.Color
	e.Description = in.Description
	e.CategoryID = in.CategoryID
	e.WalletID = in.WalletID
	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update expense: %w", err))
	}
	return e, nil
}

func (s *ExpenseServiceImpl) Delete(ctx context.Context, userID, expenseID int64) (*domain.Expense, error) {
	e, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete expense: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("expense_id", expenseID).Msg("expense deleted")
	return e, nil
}

func (s *ExpenseServiceImpl) checkInput(ctx context.Context, userID int64, in *domain.ExpenseInput) error {
	if err := in.Normalize(); err != nil {
		return validationError(err)
	}
	if in.WalletID == nil {
		return nil
	}
	w, err := s.walletRepo.GetByID(ctx, *in.WalletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil || w.UserID != userID {
		return apperror.ErrNotFound("wallet", *in.WalletID)
	}
	return nil
}
