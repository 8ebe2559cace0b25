package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by PostgreSQL. The pool is owned by the caller;
// this store never closes it. The refresh-token CAS is a conditional UPDATE,
// so rotation races resolve inside the database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pgx pool.
func NewPostgres(pool *pgxpool.Pool) (*Postgres, error) {
	if pool == nil {
		return nil, errors.New("nil pgx pool")
	}
	return &Postgres{pool: pool}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the accounts table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

const selectColumns = `id, username, email, full_name, password_hash, refresh_token, created_at, updated_at`

func (p *Postgres) FindByID(ctx context.Context, id string) (*Account, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (p *Postgres) FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM accounts WHERE username = $1 OR email = $2 LIMIT 1`,
		username, email)
	return scanAccount(row)
}

func (p *Postgres) Create(ctx context.Context, in CreateInput) (*Account, error) {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, username, email, full_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+selectColumns,
		in.ID, in.Username, in.Email, in.FullName, in.PasswordHash)

	acct, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}
	return acct, nil
}

func (p *Postgres) CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE accounts SET refresh_token = $3, updated_at = now()
		 WHERE id = $1 AND refresh_token = $2`,
		id, expected, next)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Postgres) SetRefreshToken(ctx context.Context, id, value string) error {
	return p.update(ctx,
		`UPDATE accounts SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		id, value)
}

func (p *Postgres) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	return p.update(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, newHash)
}

func (p *Postgres) update(ctx context.Context, sql string, args ...any) error {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type pgRow interface {
	Scan(dest ...any) error
}

func scanAccount(row pgRow) (*Account, error) {
	var acct Account
	err := row.Scan(
		&acct.ID,
		&acct.Username,
		&acct.Email,
		&acct.FullName,
		&acct.PasswordHash,
		&acct.RefreshToken,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &acct, nil
}
