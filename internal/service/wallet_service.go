package service

import (
	"context"
	"fmt"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, transactor ports.DBTransactor, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{walletRepo: walletRepo, transactor: transactor, log: log}
}

// List returns the user's wallets.
func (s *WalletServiceImpl) List(ctx context.Context, userID int64) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// Get returns one wallet owned by the user.
func (s *WalletServiceImpl) Get(ctx context.Context, userID, walletID int64) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil || w.UserID != userID {
		return nil, apperror.ErrNotFound("wallet", walletID)
	}
	return w, nil
}

// Create adds a wallet for the user.
func (s *WalletServiceImpl) Create(ctx context.Context, userID int64, in domain.WalletCreate) (*domain.Wallet, error) {
	if err := in.Normalize(); err != nil {
		return nil, validationError(err)
	}

	w := &domain.Wallet{
		UserID:   userID,
		Name:     in.Name,
		Balance:  in.Balance,
		Currency: in.Currency,
		IconName: in.IconName,
		ColorHex: in.ColorHex,
	}
	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("wallet_id", w.ID).Msg("wallet created")
	return w, nil
}

// Update applies patch under a row lock so it cannot interleave with a transfer.
func (s *WalletServiceImpl) Update(ctx context.Context, userID, walletID int64, patch domain.WalletPatch) (*domain.Wallet, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if w == nil || w.UserID != userID {
		return nil, apperror.ErrNotFound("wallet", walletID)
	}

	patch.Apply(w)
	if err := s.walletRepo.Update(ctx, dbTx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("wallet_id", walletID).Msg("wallet updated")
	return w, nil
}

// Delete removes the wallet and returns it as it was.
func (s *WalletServiceImpl) Delete(ctx context.Context, userID, walletID int64) (*domain.Wallet, error) {
	w, err := s.Get(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Delete(ctx, walletID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("wallet_id", walletID).Msg("wallet deleted")
	return w, nil
}
