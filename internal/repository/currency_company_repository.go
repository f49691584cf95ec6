package repository

import (
	"context"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type CurrencyCompanyRepository struct {
	DB *db.Postgres
}

func (r CurrencyCompanyRepository) List(ctx context.Context, userID string) ([]domain.CurrencyCompany, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, name, base_currency, base_currencies, target_currency, target_currencies,
		       exchange_rate, commission_percentage, description, image, is_active, created_at, updated_at
		FROM currency_companies
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.CurrencyCompany
	for rows.Next() {
		var c domain.CurrencyCompany
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.BaseCurrency, &c.BaseCurrencies, &c.TargetCurrency, &c.TargetCurrencies,
			&c.ExchangeRate, &c.CommissionPercentage, &c.Description, &c.Image, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CurrencyCompanyRepository) Create(ctx context.Context, c domain.CurrencyCompany) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO currency_companies
		(id, user_id, name, base_currency, base_currencies, target_currency, target_currencies,
		 exchange_rate, commission_percentage, description, image, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`, c.ID, c.UserID, c.Name, c.BaseCurrency, c.BaseCurrencies, c.TargetCurrency, c.TargetCurrencies,
		c.ExchangeRate, c.CommissionPercentage, c.Description, c.Image, c.IsActive, c.CreatedAt)
	return err
}

func (r CurrencyCompanyRepository) Update(ctx context.Context, userID, id string, p domain.CurrencyCompanyPatch) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE currency_companies SET
			name                  = COALESCE($3, name),
			base_currency         = COALESCE($4, base_currency),
			base_currencies       = COALESCE($5, base_currencies),
			target_currency       = COALESCE($6, target_currency),
			target_currencies     = COALESCE($7, target_currencies),
			exchange_rate         = COALESCE($8, exchange_rate),
			commission_percentage = COALESCE($9, commission_percentage),
			description           = COALESCE($10, description),
			is_active             = COALESCE($11, is_active),
			image                 = CASE WHEN $12::text IS NULL THEN image WHEN $12 = '' THEN NULL ELSE $12 END,
			updated_at            = now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, p.Name, p.BaseCurrency, p.BaseCurrencies, p.TargetCurrency, p.TargetCurrencies,
		p.ExchangeRate, p.CommissionPercentage, p.Description, p.IsActive, p.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CurrencyCompanyRepository) DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertTrash(ctx, tx, trash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM currency_companies WHERE id=$1 AND user_id=$2`, id, trash.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
