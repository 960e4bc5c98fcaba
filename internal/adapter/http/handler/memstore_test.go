package handler_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// memStore backs every repository with maps. A unit of work holds txMu from
// Begin until Commit or Rollback, which serializes transactions the way the
// FOR UPDATE row locks do in PostgreSQL.
type memStore struct {
	txMu sync.Mutex

	mu       sync.Mutex
	nextID   int64
	users    map[int64]domain.User
	wallets  map[int64]domain.Wallet
	goals    map[int64]domain.Goal
	expenses map[int64]domain.Expense
	audits   []domain.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]domain.User),
		wallets:  make(map[int64]domain.Wallet),
		goals:    make(map[int64]domain.Goal),
		expenses: make(map[int64]domain.Expense),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) wallet(id int64) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id]
}

func (s *memStore) goal(id int64) domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals[id]
}

func (s *memStore) expense(id int64) domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses[id]
}

func (s *memStore) setGoalAmount(id int64, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.goals[id]
	g.CurrentAmount = amount
	s.goals[id] = g
}

func (s *memStore) auditActions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(s.audits))
	for _, a := range s.audits {
		out = append(out, a.Action)
	}
	return out
}

// --- Users ---

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailTaken
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

// --- Wallets ---

type memWalletRepo struct{ s *memStore }

func (r memWalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = r.s.id()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	r.s.wallets[w.ID] = *w
	return nil
}

func (r memWalletRepo) GetByID(_ context.Context, id int64) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r memWalletRepo) ListByUser(_ context.Context, userID int64) ([]domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Wallet{}
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r memWalletRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[id]; !ok {
		return fmt.Errorf("wallet not found: %d", id)
	}
	delete(r.s.wallets, id)
	// ON DELETE SET NULL
	for eid, e := range r.s.expenses {
		if e.WalletID != nil && *e.WalletID == id {
			e.WalletID = nil
			r.s.expenses[eid] = e
		}
	}
	return nil
}

func (r memWalletRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r memWalletRepo) Update(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[w.ID]; !ok {
		return fmt.Errorf("wallet not found: %d", w.ID)
	}
	w.UpdatedAt = time.Now()
	r.s.wallets[w.ID] = *w
	return nil
}

func (r memWalletRepo) UpdateBalance(_ context.Context, _ pgx.Tx, id int64, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return fmt.Errorf("wallet not found: %d", id)
	}
	w.Balance = balance
	r.s.wallets[id] = w
	return nil
}

// --- Goals ---

type memGoalRepo struct{ s *memStore }

func (r memGoalRepo) Create(_ context.Context, g *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g.ID = r.s.id()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	r.s.goals[g.ID] = *g
	return nil
}

func (r memGoalRepo) GetByID(_ context.Context, id int64) (*domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.goals[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r memGoalRepo) ListByUser(_ context.Context, userID int64) ([]domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Goal{}
	for _, g := range r.s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r memGoalRepo) Update(_ context.Context, g *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.goals[g.ID]
	if !ok {
		return fmt.Errorf("goal not found: %d", g.ID)
	}
	g.CurrentAmount = old.CurrentAmount
	g.UpdatedAt = time.Now()
	r.s.goals[g.ID] = *g
	return nil
}

func (r memGoalRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[id]; !ok {
		return fmt.Errorf("goal not found: %d", id)
	}
	delete(r.s.goals, id)
	return nil
}

func (r memGoalRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*domain.Goal, error) {
	return r.GetByID(ctx, id)
}

func (r memGoalRepo) UpdateCurrentAmount(_ context.Context, _ pgx.Tx, id int64, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.goals[id]
	if !ok {
		return fmt.Errorf("goal not found: %d", id)
	}
	g.CurrentAmount = amount
	r.s.goals[id] = g
	return nil
}

// --- Expenses ---

type memExpenseRepo struct{ s *memStore }

func (r memExpenseRepo) Create(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.s.expenses[e.ID] = *e
	return nil
}

func (r memExpenseRepo) GetByID(_ context.Context, id int64) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memExpenseRepo) ListByUser(_ context.Context, userID int64) ([]domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Expense{}
	for _, e := range r.s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memExpenseRepo) Update(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.expenses[e.ID]
	if !ok {
		return fmt.Errorf("expense not found: %d", e.ID)
	}
	e.Amount = old.Amount
	e.UpdatedAt = time.Now()
	r.s.expenses[e.ID] = *e
	return nil
}

func (r memExpenseRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return fmt.Errorf("expense not found: %d", id)
	}
	delete(r.s.expenses, id)
	return nil
}

func (r memExpenseRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*domain.Expense, error) {
	return r.GetByID(ctx, id)
}

func (r memExpenseRepo) UpdateAmount(_ context.Context, _ pgx.Tx, id int64, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return fmt.Errorf("expense not found: %d", id)
	}
	e.Amount = amount
	r.s.expenses[id] = e
	return nil
}

// --- Audit ---

type memAuditRepo struct{ s *memStore }

func (r memAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *entry)
	return nil
}

// --- Unit of work ---

type memTransactor struct{ s *memStore }

func (t memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.s.txMu.Lock()
	return &memTx{s: t.s}, nil
}

// memTx releases the store lock exactly once, on Commit or Rollback.
// The in-memory writes are applied immediately, so callers must only
// write after every check has passed (which the services do).
type memTx struct {
	pgx.Tx
	s    *memStore
	once sync.Once
}

func (t *memTx) release() {
	t.once.Do(t.s.txMu.Unlock)
}

func (t *memTx) Commit(context.Context) error {
	t.release()
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	t.release()
	return nil
}

func (t *memTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
