package repository

import (
	"context"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type CompanyRepository struct {
	DB *db.Postgres
}

func (r CompanyRepository) List(ctx context.Context, userID string) ([]domain.Company, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, name, owner, description, initial_capital, working_capital,
		       share_percentage, is_active, image, created_at, updated_at
		FROM companies
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Owner, &c.Description, &c.InitialCapital, &c.WorkingCapital,
			&c.SharePercentage, &c.IsActive, &c.Image, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CompanyRepository) Create(ctx context.Context, c domain.Company) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO companies
		(id, user_id, name, owner, description, initial_capital, working_capital, share_percentage, is_active, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
	`, c.ID, c.UserID, c.Name, c.Owner, c.Description, c.InitialCapital, c.WorkingCapital, c.SharePercentage, c.IsActive, c.Image, c.CreatedAt)
	return err
}

func (r CompanyRepository) Update(ctx context.Context, userID, id string, p domain.CompanyPatch) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE companies SET
			name             = COALESCE($3, name),
			owner            = COALESCE($4, owner),
			description      = COALESCE($5, description),
			initial_capital  = COALESCE($6, initial_capital),
			working_capital  = COALESCE($7, working_capital),
			share_percentage = COALESCE($8, share_percentage),
			is_active        = COALESCE($9, is_active),
			image            = CASE WHEN $10::text IS NULL THEN image WHEN $10 = '' THEN NULL ELSE $10 END,
			updated_at       = now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, p.Name, p.Owner, p.Description, p.InitialCapital, p.WorkingCapital, p.SharePercentage, p.IsActive, p.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CompanyRepository) DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertTrash(ctx, tx, trash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM companies WHERE id=$1 AND user_id=$2`, id, trash.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
