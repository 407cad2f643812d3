package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-lifecycle/internal/domain"
)

var accountColumnNames = []string{
	"id", "email", "name", "image", "password_hash", "is_verified",
	"verification_token", "verification_token_expires_at",
	"reset_token", "reset_token_expires_at", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestPgAccountRepository_GetByEmail(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		email     string
		setupMock func(mock pgxmock.PgxPoolIface)
		check     func(t *testing.T, acc domain.Account, err error)
	}{
		{
			name:  "found with pending verification",
			email: "user@example.com",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountColumnNames).AddRow(
					"a1", "user@example.com", "User", "", strPtr("hash"), false,
					strPtr("tok"), timePtr(expires),
					(*string)(nil), (*time.Time)(nil), now, now,
				)
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
					WithArgs("user@example.com").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, acc domain.Account, err error) {
				require.NoError(t, err)
				assert.Equal(t, "a1", acc.ID)
				require.NotNil(t, acc.PasswordHash)
				assert.Equal(t, "hash", *acc.PasswordHash)
				require.NotNil(t, acc.Verification)
				assert.Equal(t, "tok", acc.Verification.Value)
				assert.True(t, acc.Verification.ExpiresAt.Equal(expires))
				assert.Nil(t, acc.Reset)
			},
		},
		{
			name:  "external identity account without password",
			email: "google@example.com",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountColumnNames).AddRow(
					"a2", "google@example.com", "G", "https://img", (*string)(nil), true,
					(*string)(nil), (*time.Time)(nil),
					(*string)(nil), (*time.Time)(nil), now, now,
				)
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
					WithArgs("google@example.com").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, acc domain.Account, err error) {
				require.NoError(t, err)
				assert.Nil(t, acc.PasswordHash)
				assert.False(t, acc.HasPassword())
				assert.True(t, acc.IsVerified)
				assert.Nil(t, acc.Verification)
			},
		},
		{
			name:  "not found",
			email: "missing@example.com",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
					WithArgs("missing@example.com").
					WillReturnRows(pgxmock.NewRows(accountColumnNames))
			},
			check: func(t *testing.T, _ domain.Account, err error) {
				assert.ErrorIs(t, err, ErrAccountNotFound)
			},
		},
		{
			name:  "database error",
			email: "user@example.com",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
					WithArgs("user@example.com").
					WillReturnError(errors.New("connection refused"))
			},
			check: func(t *testing.T, _ domain.Account, err error) {
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrAccountNotFound)
				assert.Contains(t, err.Error(), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPgAccountRepository(mock)
			acc, err := repo.GetByEmail(context.Background(), tt.email)
			tt.check(t, acc, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgAccountRepository_TokenLookupsFilterByExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM accounts\s+WHERE verification_token = \$1 AND verification_token_expires_at > \$2`).
		WithArgs("vtok", now).
		WillReturnRows(pgxmock.NewRows(accountColumnNames))
	mock.ExpectQuery(`FROM accounts\s+WHERE reset_token = \$1 AND reset_token_expires_at > \$2`).
		WithArgs("rtok", now).
		WillReturnRows(pgxmock.NewRows(accountColumnNames).AddRow(
			"a1", "user@example.com", "User", "", strPtr("hash"), true,
			(*string)(nil), (*time.Time)(nil),
			strPtr("rtok"), timePtr(now.Add(time.Hour)), now, now,
		))

	repo := NewPgAccountRepository(mock)

	_, err = repo.GetByVerificationToken(context.Background(), "vtok", now)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	acc, err := repo.GetByResetToken(context.Background(), "rtok", now)
	require.NoError(t, err)
	require.NotNil(t, acc.Reset)
	assert.Equal(t, "rtok", acc.Reset.Value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgAccountRepository_Create(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	acc := domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Name:         "User",
		PasswordHash: strPtr("hash"),
		Verification: &domain.PendingToken{Value: "tok", ExpiresAt: now.Add(24 * time.Hour)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs("a1", "user@example.com", "User", "",
				pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewPgAccountRepository(mock)
		require.NoError(t, repo.Create(context.Background(), acc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs("a1", "user@example.com", "User", "",
				pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), now, now).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_key"})

		repo := NewPgAccountRepository(mock)
		err = repo.Create(context.Background(), acc)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgAccountRepository_Update(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	acc := domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Name:         "Renamed",
		PasswordHash: strPtr("newhash"),
		IsVerified:   true,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts SET`).
			WithArgs("a1", "Renamed", "", pgxmock.AnyArg(), true,
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPgAccountRepository(mock)
		require.NoError(t, repo.Update(context.Background(), acc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts SET`).
			WithArgs("a1", "Renamed", "", pgxmock.AnyArg(), true,
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPgAccountRepository(mock)
		assert.ErrorIs(t, repo.Update(context.Background(), acc), ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenArgsAndPendingToken(t *testing.T) {
	value, expires := tokenArgs(nil)
	assert.Nil(t, value)
	assert.Nil(t, expires)

	now := time.Now().UTC()
	value, expires = tokenArgs(&domain.PendingToken{Value: "x", ExpiresAt: now})
	require.NotNil(t, value)
	require.NotNil(t, expires)
	assert.Equal(t, "x", *value)

	assert.Nil(t, pendingToken(strPtr("x"), nil))
	assert.Nil(t, pendingToken(nil, timePtr(now)))
	assert.Equal(t, &domain.PendingToken{Value: "x", ExpiresAt: now}, pendingToken(strPtr("x"), timePtr(now)))
}
