package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type TransactionRepository struct {
	DB *db.Postgres
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTransaction(ctx context.Context, q execer, t domain.Transaction) error {
	_, err := q.Exec(ctx, `
		INSERT INTO transactions
		(id, user_id, type, amount, rate, description, company_id, fournisseur_id, currency_tx_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
	`, t.ID, t.UserID, string(t.Type), t.Amount, t.Rate, t.Description, t.CompanyID, t.FournisseurID, t.CurrencyTxID, t.CreatedAt)
	return err
}

func (r TransactionRepository) List(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, type, amount, rate, description, company_id, fournisseur_id, currency_tx_id, created_at, updated_at
		FROM transactions
		WHERE user_id=$1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3 + interval '1 day')
		ORDER BY created_at DESC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Rate, &t.Description, &t.CompanyID, &t.FournisseurID, &t.CurrencyTxID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Type = domain.TransactionType(typ)
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r TransactionRepository) Create(ctx context.Context, t domain.Transaction) error {
	return insertTransaction(ctx, r.DB.Pool, t)
}

func (r TransactionRepository) Update(ctx context.Context, userID, id string, p domain.TransactionPatch) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE transactions SET
			amount      = COALESCE($3, amount),
			rate        = COALESCE($4, rate),
			description = COALESCE($5, description),
			updated_at  = now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, p.Amount, p.Rate, p.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM transactions WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// DeleteWithTrash snapshots the row into trash and removes it in one
// database transaction.
func (r TransactionRepository) DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertTrash(ctx, tx, trash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1 AND user_id=$2`, id, trash.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
