package repository

import (
	"context"

	"rasmal-backend/internal/db"
	"rasmal-backend/internal/domain"
)

type TrashRepository struct {
	DB *db.Postgres
}

func insertTrash(ctx context.Context, q execer, item domain.TrashItem) error {
	_, err := q.Exec(ctx, `
		INSERT INTO trash (id, user_id, item_type, item_data, deleted_at)
		VALUES ($1,$2,$3,$4,$5)
	`, item.ID, item.UserID, string(item.ItemType), item.ItemData, item.DeletedAt)
	return err
}

func (r TrashRepository) List(ctx context.Context, userID string) ([]domain.TrashItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, item_type, item_data, deleted_at
		FROM trash
		WHERE user_id=$1
		ORDER BY deleted_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.TrashItem
	for rows.Next() {
		var t domain.TrashItem
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.ItemData, &t.DeletedAt); err != nil {
			return nil, err
		}
		t.ItemType = domain.TrashItemType(typ)
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r TrashRepository) Get(ctx context.Context, userID, id string) (domain.TrashItem, error) {
	var t domain.TrashItem
	var typ string
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, user_id, item_type, item_data, deleted_at
		FROM trash
		WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&t.ID, &t.UserID, &typ, &t.ItemData, &t.DeletedAt)
	if err != nil {
		return domain.TrashItem{}, mapNotFound(err)
	}
	t.ItemType = domain.TrashItemType(typ)
	return t, nil
}

func (r TrashRepository) Create(ctx context.Context, item domain.TrashItem) error {
	return insertTrash(ctx, r.DB.Pool, item)
}

// Delete is idempotent: purging an already-purged item is not an error.
func (r TrashRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM trash WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

func (r TrashRepository) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM trash WHERE user_id=$1`, userID)
	return err
}
