package postgres

import (
	"context"
	"testing"
	"time"

	"growfi-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userCols() []string {
	return []string{"id", "email", "full_name", "password_hash", "is_active", "created_at", "updated_at"}
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := &domain.User{Email: "a@b.kz", FullName: strPtr("Aida"), PasswordHash: "hash", IsActive: true}
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.kz", u.FullName, "hash", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(1), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := &domain.User{Email: "a@b.kz", PasswordHash: "hash", IsActive: true}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.kz", u.FullName, "hash", true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM users WHERE LOWER\\(email\\)").
		WithArgs("A@B.kz").
		WillReturnRows(pgxmock.NewRows(userCols()).AddRow(int64(1), "a@b.kz", nil, "hash", true, now, now))
	mock.ExpectQuery("SELECT .+ FROM users WHERE LOWER\\(email\\)").
		WithArgs("none@b.kz").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByEmail(context.Background(), "A@B.kz")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Nil(t, u.FullName)

	missing, err := repo.GetByEmail(context.Background(), "none@b.kz")
	assert.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(userCols()).AddRow(int64(1), "a@b.kz", strPtr("Aida"), "hash", false, now, now))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.IsActive)
	assert.Equal(t, "Aida", *u.FullName)
}
