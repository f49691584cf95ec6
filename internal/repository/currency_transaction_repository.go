package repository

import (
	"context"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type CurrencyTransactionRepository struct {
	DB *db.Postgres
}

func (r CurrencyTransactionRepository) List(ctx context.Context, userID string) ([]domain.CurrencyTransaction, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, currency_company_id, from_amount, to_amount, exchange_rate_used, commission_amount,
		       description, usd_fournisseur_id, dzd_company_id, usd_description, dzd_description, created_at, updated_at
		FROM currency_transactions
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.CurrencyTransaction
	for rows.Next() {
		var ct domain.CurrencyTransaction
		if err := rows.Scan(
			&ct.ID, &ct.UserID, &ct.CurrencyCompanyID, &ct.FromAmount, &ct.ToAmount, &ct.ExchangeRateUsed, &ct.CommissionAmount,
			&ct.Description, &ct.UsdFournisseurID, &ct.DzdCompanyID, &ct.UsdDescription, &ct.DzdDescription, &ct.CreatedAt, &ct.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, ct)
	}
	return items, rows.Err()
}

func insertCurrencyTransaction(ctx context.Context, q execer, ct domain.CurrencyTransaction) error {
	_, err := q.Exec(ctx, `
		INSERT INTO currency_transactions
		(id, user_id, currency_company_id, from_amount, to_amount, exchange_rate_used, commission_amount,
		 description, usd_fournisseur_id, dzd_company_id, usd_description, dzd_description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`, ct.ID, ct.UserID, ct.CurrencyCompanyID, ct.FromAmount, ct.ToAmount, ct.ExchangeRateUsed, ct.CommissionAmount,
		ct.Description, ct.UsdFournisseurID, ct.DzdCompanyID, ct.UsdDescription, ct.DzdDescription, ct.CreatedAt)
	return err
}

func (r CurrencyTransactionRepository) Create(ctx context.Context, ct domain.CurrencyTransaction) error {
	return insertCurrencyTransaction(ctx, r.DB.Pool, ct)
}

// CreateCompound writes the exchange record and its ledger legs in one
// database transaction so a failure leaves neither behind.
func (r CurrencyTransactionRepository) CreateCompound(ctx context.Context, ct domain.CurrencyTransaction, legs []domain.Transaction) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertCurrencyTransaction(ctx, tx, ct); err != nil {
		return err
	}
	for _, leg := range legs {
		if err := insertTransaction(ctx, tx, leg); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r CurrencyTransactionRepository) Update(ctx context.Context, userID, id string, p domain.CurrencyTransactionPatch) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE currency_transactions SET
			currency_company_id = COALESCE($3, currency_company_id),
			from_amount         = COALESCE($4, from_amount),
			to_amount           = COALESCE($5, to_amount),
			exchange_rate_used  = COALESCE($6, exchange_rate_used),
			commission_amount   = COALESCE($7, commission_amount),
			description         = COALESCE($8, description),
			usd_fournisseur_id  = COALESCE($9, usd_fournisseur_id),
			dzd_company_id      = COALESCE($10, dzd_company_id),
			usd_description     = COALESCE($11, usd_description),
			dzd_description     = COALESCE($12, dzd_description),
			updated_at          = now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, p.CurrencyCompanyID, p.FromAmount, p.ToAmount, p.ExchangeRateUsed, p.CommissionAmount,
		p.Description, p.UsdFournisseurID, p.DzdCompanyID, p.UsdDescription, p.DzdDescription)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade trashes the exchange record, then removes it together with
// its linked ledger legs atomically.
func (r CurrencyTransactionRepository) DeleteCascade(ctx context.Context, trash domain.TrashItem, id string, linkedIDs []string) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertTrash(ctx, tx, trash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM currency_transactions WHERE id=$1 AND user_id=$2`, id, trash.UserID); err != nil {
		return err
	}
	if len(linkedIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id=$1 AND id = ANY($2)`, trash.UserID, linkedIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
