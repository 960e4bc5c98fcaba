package service

import (
	"context"
	"fmt"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	walletRepo  ports.WalletRepository
	goalRepo    ports.GoalRepository
	expenseRepo ports.ExpenseRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	walletRepo ports.WalletRepository,
	goalRepo ports.GoalRepository,
	expenseRepo ports.ExpenseRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		walletRepo:  walletRepo,
		goalRepo:    goalRepo,
		expenseRepo: expenseRepo,
		transactor:  transactor,
		log:         log,
	}
}

// destination is a locked goal or expense row that can receive funds.
type destination struct {
	accumulated decimal.Decimal
	credit      func(ctx context.Context, tx pgx.Tx, total decimal.Decimal) error
}

// Transfer debits the wallet and credits the destination in one transaction.
// Both rows are locked with FOR UPDATE, wallet first, so concurrent transfers
// from one wallet serialize. Checks run in order: request shape, wallet,
// destination, balance. Calling it twice moves the amount twice.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Wallet, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil || wallet.UserID != req.UserID {
		return nil, apperror.ErrNotFound("wallet", req.WalletID)
	}

	dest, err := s.lockDestination(ctx, dbTx, req)
	if err != nil {
		return nil, err
	}

	if !wallet.Covers(req.Amount) {
		return nil, apperror.ErrInsufficientFunds(wallet.ID, req.Amount, wallet.Balance)
	}

	newBalance := wallet.Balance.Sub(req.Amount)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit wallet: %w", err))
	}
	if err := dest.credit(ctx, dbTx, dest.accumulated.Add(req.Amount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit %s: %w", req.DestinationKind, err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	wallet.Balance = newBalance

	ev := s.log.Info().
		Int64("user_id", req.UserID).
		Int64("wallet_id", wallet.ID).
		Str("destination", string(req.DestinationKind)).
		Int64("destination_id", req.DestinationID).
		Str("amount", req.Amount.StringFixed(2)).
		Str("balance", newBalance.StringFixed(2))
	if req.Date != "" {
		ev = ev.Str("date", req.Date)
	}
	ev.Msg("funds transferred")

	return wallet, nil
}

func (s *TransferServiceImpl) lockDestination(ctx context.Context, tx pgx.Tx, req domain.TransferRequest) (*destination, error) {
	switch req.DestinationKind {
	case domain.DestinationGoal:
		goal, err := s.goalRepo.GetByIDForUpdate(ctx, tx, req.DestinationID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock goal: %w", err))
		}
		if goal == nil || goal.UserID != req.UserID {
			return nil, apperror.ErrNotFound("goal", req.DestinationID)
		}
		return &destination{
			accumulated: goal.CurrentAmount,
			credit: func(ctx context.Context, tx pgx.Tx, total decimal.Decimal) error {
				return s.goalRepo.UpdateCurrentAmount(ctx, tx, goal.ID, total)
			},
		}, nil

	case domain.DestinationExpense:
		expense, err := s.expenseRepo.GetByIDForUpdate(ctx, tx, req.DestinationID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock expense: %w", err))
		}
		if expense == nil || expense.UserID != req.UserID {
			return nil, apperror.ErrNotFound("expense", req.DestinationID)
		}
		return &destination{
			accumulated: expense.Amount,
			credit: func(ctx context.Context, tx pgx.Tx, total decimal.Decimal) error {
				return s.expenseRepo.UpdateAmount(ctx, tx, expense.ID, total)
			},
		}, nil
	}
	return nil, apperror.ErrValidation("destination", "must be goal or expense")
}
