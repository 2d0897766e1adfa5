package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/authkit/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// UserRepo is the MySQL backend of UserStore over the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,is_active,created_at,updated_at"

// Create inserts a user and returns the stored projection.
func (r *UserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := model.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     NormalizeEmail(in.Email),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id,name,email,password_hash,is_active,created_at,updated_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Name, u.Email, in.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return model.User{}, ErrDuplicateKey
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindByEmail fetches a user by normalized email without the hash.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// FindByEmailWithSecret is FindByEmail plus password_hash.  Login only.
func (r *UserRepo) FindByEmailWithSecret(ctx context.Context, email string) (model.UserSecret, error) {
	var s model.UserSecret
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+",password_hash FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)).
		Scan(&s.ID, &s.Name, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.PasswordHash)
	if err != nil {
		return model.UserSecret{}, mapNoRows(err)
	}
	return s, nil
}

// FindByID fetches a user by id without the hash.
func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, mapNoRows(err)
	}
	return u, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("query user: %w", err)
}
