package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type FundRepository struct {
	DB *db.Postgres
}

// Get returns the user's fund row. A user who never touched the fund gets a
// zero-amount row rather than ErrNotFound.
func (r FundRepository) Get(ctx context.Context, userID string) (domain.FundCapital, error) {
	var f domain.FundCapital
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT user_id, amount, password_hash, updated_at
		FROM fund_capital
		WHERE user_id=$1
	`, userID).Scan(&f.UserID, &f.Amount, &f.PasswordHash, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FundCapital{UserID: userID, Amount: decimal.Zero}, nil
		}
		return domain.FundCapital{}, err
	}
	return f, nil
}

// Set upserts the singleton fund row for the user.
func (r FundRepository) Set(ctx context.Context, f domain.FundCapital) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO fund_capital (user_id, amount, password_hash, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (user_id) DO UPDATE SET
			amount        = EXCLUDED.amount,
			password_hash = COALESCE(EXCLUDED.password_hash, fund_capital.password_hash),
			updated_at    = now()
	`, f.UserID, f.Amount, f.PasswordHash)
	return err
}

// UpdateAmount adjusts the cached fund amount without touching the password.
func (r FundRepository) UpdateAmount(ctx context.Context, userID string, amount decimal.Decimal) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO fund_capital (user_id, amount, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (user_id) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
	`, userID, amount)
	return err
}

func (r FundRepository) ListTransactions(ctx context.Context, userID string) ([]domain.FundTransaction, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, type, amount, description, created_at
		FROM fund_transactions
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.FundTransaction
	for rows.Next() {
		var t domain.FundTransaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = domain.FundTransactionType(typ)
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r FundRepository) CreateTransaction(ctx context.Context, t domain.FundTransaction) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO fund_transactions (id, user_id, type, amount, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, t.ID, t.UserID, string(t.Type), t.Amount, t.Description, t.CreatedAt)
	return err
}
