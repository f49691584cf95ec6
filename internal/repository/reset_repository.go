package repository

import (
	"context"

	"rasmal-backend/internal/db"
)

type ResetRepository struct {
	DB *db.Postgres
}

// Wipe removes every ledger row owned by the user. Tables are cleared one by
// one, children before parents, so a failure part way leaves no dangling
// references.
func (r ResetRepository) Wipe(ctx context.Context, userID string) error {
	tables := []string{
		"currency_transactions",
		"transactions",
		"fund_transactions",
		"companies",
		"fournisseurs",
		"fund_capital",
		"currency_companies",
		"trash",
	}
	for _, table := range tables {
		if _, err := r.DB.Pool.Exec(ctx, `DELETE FROM `+table+` WHERE user_id=$1`, userID); err != nil {
			return err
		}
	}
	return nil
}
