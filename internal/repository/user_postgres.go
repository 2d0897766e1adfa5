package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iliyamo/authkit/internal/model"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure.
const pgUniqueViolation = "23505"

// PostgresUserRepo is the PostgreSQL backend of UserStore.  The *sql.DB is
// expected to be opened with the "pgx" driver from pgx/v5/stdlib.
type PostgresUserRepo struct{ DB *sql.DB }

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo { return &PostgresUserRepo{DB: db} }

func (r *PostgresUserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	u := model.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     NormalizeEmail(in.Email),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, in.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.User{}, ErrDuplicateKey
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
	return scanUser(row)
}

func (r *PostgresUserRepo) FindByEmailWithSecret(ctx context.Context, email string) (model.UserSecret, error) {
	var s model.UserSecret
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, NormalizeEmail(email)).
		Scan(&s.ID, &s.Name, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.PasswordHash)
	if err != nil {
		return model.UserSecret{}, mapNoRows(err)
	}
	return s, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		// a non-uuid id cannot match the uuid column; postgres would reject the cast
		return model.User{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}
