package service

import (
	"context"
	"errors"
	"testing"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports/mocks"
	"growfi-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockTx implements pgx.Tx for testing and records how it was closed.
type mockTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// decEq matches a decimal by value, ignoring its exponent.
type decEq string

func (m decEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(dec(string(m)))
}

func (m decEq) String() string { return "is decimal " + string(m) }

type transferTestDeps struct {
	svc         *TransferServiceImpl
	walletRepo  *mocks.MockWalletRepository
	goalRepo    *mocks.MockGoalRepository
	expenseRepo *mocks.MockExpenseRepository
	transactor  *mocks.MockDBTransactor
	tx          *mockTx
}

func setupTransferService(t *testing.T) *transferTestDeps {
	ctrl := gomock.NewController(t)
	d := &transferTestDeps{
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		goalRepo:    mocks.NewMockGoalRepository(ctrl),
		expenseRepo: mocks.NewMockExpenseRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		tx:          &mockTx{},
	}
	d.svc = NewTransferService(d.walletRepo, d.goalRepo, d.expenseRepo, d.transactor, zerolog.Nop())
	return d
}

func goalTransfer(amount string) domain.TransferRequest {
	return domain.TransferRequest{
		UserID:          1,
		WalletID:        10,
		DestinationKind: domain.DestinationGoal,
		DestinationID:   20,
		Amount:          dec(amount),
		Date:            "2024-05-01",
	}
}

func requireCode(t *testing.T, err error, code string) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestTransferService_Goal_Success(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("100")}, nil)
	d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
		Return(&domain.Goal{ID: 20, UserID: 1, CurrentAmount: dec("20"), TargetAmount: dec("500")}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, d.tx, int64(10), decEq("70")).Return(nil)
	d.goalRepo.EXPECT().UpdateCurrentAmount(ctx, d.tx, int64(20), decEq("50")).Return(nil)

	wallet, err := d.svc.Transfer(ctx, goalTransfer("30"))
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(dec("70")))
	assert.True(t, d.tx.committed)
}

func TestTransferService_Expense_Success(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	req := goalTransfer("12.50")
	req.DestinationKind = domain.DestinationExpense
	req.DestinationID = 30

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("12.50")}, nil)
	d.expenseRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(30)).
		Return(&domain.Expense{ID: 30, UserID: 1, Amount: dec("7.25")}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, d.tx, int64(10), decEq("0")).Return(nil)
	d.expenseRepo.EXPECT().UpdateAmount(ctx, d.tx, int64(30), decEq("19.75")).Return(nil)

	wallet, err := d.svc.Transfer(ctx, req)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "exact balance can be drained")
	assert.True(t, d.tx.committed)
}

func TestTransferService_InsufficientFunds(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("10")}, nil)
	d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
		Return(&domain.Goal{ID: 20, UserID: 1, CurrentAmount: dec("0")}, nil)

	_, err := d.svc.Transfer(ctx, goalTransfer("50"))
	appErr := requireCode(t, err, apperror.CodeInsufficientFunds)
	assert.Equal(t, int64(10), appErr.Details["wallet_id"])
	assert.Equal(t, "50.00", appErr.Details["requested"])
	assert.Equal(t, "10.00", appErr.Details["available"])
	assert.False(t, d.tx.committed)
	assert.True(t, d.tx.rolledBack)
}

func TestTransferService_WalletNotFound(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	req := goalTransfer("30")
	req.WalletID = 999

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(999)).Return(nil, nil)

	_, err := d.svc.Transfer(ctx, req)
	appErr := requireCode(t, err, apperror.CodeNotFound)
	assert.Equal(t, "wallet", appErr.Details["entity"])
	assert.Equal(t, int64(999), appErr.Details["id"])
	assert.True(t, d.tx.rolledBack)
}

func TestTransferService_WalletOfAnotherUser(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 2, Balance: dec("100")}, nil)

	_, err := d.svc.Transfer(ctx, goalTransfer("30"))
	appErr := requireCode(t, err, apperror.CodeNotFound)
	assert.Equal(t, "wallet", appErr.Details["entity"])
}

func TestTransferService_DestinationNotFound(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.DestinationKind
		setup func(d *transferTestDeps, ctx context.Context)
	}{
		{
			name: "goal missing",
			kind: domain.DestinationGoal,
			setup: func(d *transferTestDeps, ctx context.Context) {
				d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).Return(nil, nil)
			},
		},
		{
			name: "goal of another user",
			kind: domain.DestinationGoal,
			setup: func(d *transferTestDeps, ctx context.Context) {
				d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
					Return(&domain.Goal{ID: 20, UserID: 2}, nil)
			},
		},
		{
			name: "expense missing",
			kind: domain.DestinationExpense,
			setup: func(d *transferTestDeps, ctx context.Context) {
				d.expenseRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupTransferService(t)
			ctx := context.Background()

			d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
			// Balance would be short too; the missing destination is reported first.
			d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
				Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("1")}, nil)
			tt.setup(d, ctx)

			req := goalTransfer("30")
			req.DestinationKind = tt.kind
			_, err := d.svc.Transfer(ctx, req)
			appErr := requireCode(t, err, apperror.CodeNotFound)
			assert.Equal(t, string(tt.kind), appErr.Details["entity"])
			assert.False(t, d.tx.committed)
		})
	}
}

func TestTransferService_ValidationBeforePersistence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.TransferRequest)
		field  string
	}{
		{"zero amount", func(r *domain.TransferRequest) { r.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *domain.TransferRequest) { r.Amount = dec("-1") }, "amount"},
		{"over column", func(r *domain.TransferRequest) { r.Amount = dec("1000000000000") }, "amount"},
		{"huge exponent", func(r *domain.TransferRequest) { r.Amount = decimal.New(1, 50000000) }, "amount"},
		{"bad destination", func(r *domain.TransferRequest) { r.DestinationKind = "income" }, "destination"},
		{"bad date", func(r *domain.TransferRequest) { r.Date = "yesterday" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No EXPECT calls: any repository or transactor use fails the test.
			d := setupTransferService(t)
			req := goalTransfer("30")
			tt.mutate(&req)

			_, err := d.svc.Transfer(context.Background(), req)
			appErr := requireCode(t, err, apperror.CodeValidation)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestTransferService_CreditFailureRollsBack(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("100")}, nil)
	d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
		Return(&domain.Goal{ID: 20, UserID: 1, CurrentAmount: dec("0")}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, d.tx, int64(10), decEq("70")).Return(nil)
	d.goalRepo.EXPECT().UpdateCurrentAmount(ctx, d.tx, int64(20), decEq("30")).Return(errors.New("conn reset"))

	_, err := d.svc.Transfer(ctx, goalTransfer("30"))
	requireCode(t, err, apperror.CodeInternal)
	assert.False(t, d.tx.committed)
	assert.True(t, d.tx.rolledBack)
}

func TestTransferService_CommitFailure(t *testing.T) {
	d := setupTransferService(t)
	d.tx.commitErr = errors.New("serialization failure")
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		Return(&domain.Wallet{ID: 10, UserID: 1, Balance: dec("100")}, nil)
	d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
		Return(&domain.Goal{ID: 20, UserID: 1}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, d.tx, int64(10), gomock.Any()).Return(nil)
	d.goalRepo.EXPECT().UpdateCurrentAmount(ctx, d.tx, int64(20), gomock.Any()).Return(nil)

	_, err := d.svc.Transfer(ctx, goalTransfer("30"))
	requireCode(t, err, apperror.CodeInternal)
	assert.True(t, d.tx.rolledBack)
}

func TestTransferService_BeginFailure(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(nil, errors.New("pool exhausted"))

	_, err := d.svc.Transfer(ctx, goalTransfer("30"))
	requireCode(t, err, apperror.CodeInternal)
}

// Stateful repos: two identical calls debit twice and the sum stays constant.
func TestTransferService_RepeatedCallsDebitTwice(t *testing.T) {
	d := setupTransferService(t)
	ctx := context.Background()

	balance := dec("100")
	current := dec("20")

	d.transactor.EXPECT().Begin(ctx).Return(d.tx, nil).Times(2)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(10)).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, id int64) (*domain.Wallet, error) {
			return &domain.Wallet{ID: id, UserID: 1, Balance: balance}, nil
		}).Times(2)
	d.goalRepo.EXPECT().GetByIDForUpdate(ctx, d.tx, int64(20)).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, id int64) (*domain.Goal, error) {
			return &domain.Goal{ID: id, UserID: 1, CurrentAmount: current}, nil
		}).Times(2)
	d.walletRepo.EXPECT().UpdateBalance(ctx, d.tx, int64(10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, _ int64, b decimal.Decimal) error {
			balance = b
			return nil
		}).Times(2)
	d.goalRepo.EXPECT().UpdateCurrentAmount(ctx, d.tx, int64(20), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, _ int64, a decimal.Decimal) error {
			current = a
			return nil
		}).Times(2)

	total := balance.Add(current)
	for i := 0; i < 2; i++ {
		_, err := d.svc.Transfer(ctx, goalTransfer("30"))
		require.NoError(t, err)
		assert.True(t, balance.Add(current).Equal(total), "funds conserved after call %d", i+1)
	}

	assert.True(t, balance.Equal(dec("40")))
	assert.True(t, current.Equal(dec("80")))
}
