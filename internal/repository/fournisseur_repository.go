package repository

import (
	"context"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type FournisseurRepository struct {
	DB *db.Postgres
}

func (r FournisseurRepository) List(ctx context.Context, userID string) ([]domain.Fournisseur, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, name, currency, currencies, balance, image, created_at, updated_at
		FROM fournisseurs
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Fournisseur
	for rows.Next() {
		var f domain.Fournisseur
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Currency, &f.Currencies, &f.Balance, &f.Image, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r FournisseurRepository) Create(ctx context.Context, f domain.Fournisseur) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO fournisseurs (id, user_id, name, currency, currencies, balance, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
	`, f.ID, f.UserID, f.Name, f.Currency, f.Currencies, f.Balance, f.Image, f.CreatedAt)
	return err
}

func (r FournisseurRepository) Update(ctx context.Context, userID, id string, p domain.FournisseurPatch) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE fournisseurs SET
			name       = COALESCE($3, name),
			currency   = COALESCE($4, currency),
			currencies = COALESCE($5, currencies),
			balance    = COALESCE($6, balance),
			image      = CASE WHEN $7::text IS NULL THEN image WHEN $7 = '' THEN NULL ELSE $7 END,
			updated_at = now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, p.Name, p.Currency, p.Currencies, p.Balance, p.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r FournisseurRepository) DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertTrash(ctx, tx, trash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM fournisseurs WHERE id=$1 AND user_id=$2`, id, trash.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
