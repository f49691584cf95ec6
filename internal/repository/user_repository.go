package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

// ErrNotFound is returned when a row scoped to the current user does not
// exist. Handlers translate it to a 404.
var ErrNotFound = errors.New("record not found")

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type UserRepository struct {
	DB *db.Postgres
}

func (r UserRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, is_google, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.IsGoogle, u.CreatedAt)
	return err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(ctx, `
		SELECT id, name, email, password_hash, is_google, created_at, updated_at
		FROM users
		WHERE email=$1 AND deleted_at IS NULL
	`, email)
}

func (r UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(ctx, `
		SELECT id, name, email, password_hash, is_google, created_at, updated_at
		FROM users
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
}

func (r UserRepository) scanUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.DB.Pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsGoogle, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
