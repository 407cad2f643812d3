package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"account-lifecycle/internal/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("account email already exists")
)

// AccountRepository define el contrato de persistencia para cuentas.
// Las busquedas por token solo devuelven cuentas cuyo token vence despues de now.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (domain.Account, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
}

// pgxQuerier es el subconjunto de pgxpool.Pool que usa el repositorio.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgAccountRepository implementa AccountRepository usando pgx.
type PgAccountRepository struct {
	pool pgxQuerier
}

func NewPgAccountRepository(pool pgxQuerier) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

const accountColumns = `id, email, name, image, password_hash, is_verified, ` +
	`verification_token, verification_token_expires_at, ` +
	`reset_token, reset_token_expires_at, created_at, updated_at`

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) error {
	const query = `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	verToken, verExpires := tokenArgs(account.Verification)
	resetToken, resetExpires := tokenArgs(account.Reset)
	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.Image,
		account.PasswordHash,
		account.IsVerified,
		verToken,
		verExpires,
		resetToken,
		resetExpires,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

func (r *PgAccountRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts
		WHERE verification_token = $1 AND verification_token_expires_at > $2`
	return r.queryOne(ctx, query, token, now)
}

func (r *PgAccountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts
		WHERE reset_token = $1 AND reset_token_expires_at > $2`
	return r.queryOne(ctx, query, token, now)
}

// Update reescribe la fila completa en una sola sentencia.
func (r *PgAccountRepository) Update(ctx context.Context, account domain.Account) error {
	const query = `
		UPDATE accounts SET
			name = $2,
			image = $3,
			password_hash = $4,
			is_verified = $5,
			verification_token = $6,
			verification_token_expires_at = $7,
			reset_token = $8,
			reset_token_expires_at = $9,
			updated_at = $10
		WHERE id = $1
	`
	verToken, verExpires := tokenArgs(account.Verification)
	resetToken, resetExpires := tokenArgs(account.Reset)
	tag, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		account.Image,
		account.PasswordHash,
		account.IsVerified,
		verToken,
		verExpires,
		resetToken,
		resetExpires,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PgAccountRepository) queryOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var (
		a            domain.Account
		verToken     *string
		verExpires   *time.Time
		resetToken   *string
		resetExpires *time.Time
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.Image,
		&a.PasswordHash,
		&a.IsVerified,
		&verToken,
		&verExpires,
		&resetToken,
		&resetExpires,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("select account: %w", err)
	}
	a.Verification = pendingToken(verToken, verExpires)
	a.Reset = pendingToken(resetToken, resetExpires)
	return a, nil
}

func tokenArgs(t *domain.PendingToken) (*string, *time.Time) {
	if t == nil {
		return nil, nil
	}
	value := t.Value
	expires := t.ExpiresAt
	return &value, &expires
}

// pendingToken descarta pares incompletos; el esquema ya los impide.
func pendingToken(value *string, expires *time.Time) *domain.PendingToken {
	if value == nil || expires == nil {
		return nil
	}
	return &domain.PendingToken{Value: *value, ExpiresAt: *expires}
}
