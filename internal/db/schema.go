package db

import "context"

// EnsureSchema creates the ledger tables when they do not exist yet. Run at
// startup before the repositories are used.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            text PRIMARY KEY,
			name          text NOT NULL DEFAULT '',
			email         text NOT NULL UNIQUE,
			password_hash text,
			is_google     boolean NOT NULL DEFAULT false,
			created_at    timestamptz NOT NULL DEFAULT now(),
			updated_at    timestamptz NOT NULL DEFAULT now(),
			deleted_at    timestamptz
		)`,
		`CREATE TABLE IF NOT EXISTS companies (
			id               text PRIMARY KEY,
			user_id          text NOT NULL,
			name             text NOT NULL,
			owner            text NOT NULL DEFAULT '',
			description      text NOT NULL DEFAULT '',
			initial_capital  numeric NOT NULL DEFAULT 0,
			working_capital  numeric NOT NULL DEFAULT 0,
			share_percentage numeric NOT NULL DEFAULT 0,
			is_active        boolean NOT NULL DEFAULT true,
			image            text,
			created_at       timestamptz NOT NULL DEFAULT now(),
			updated_at       timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS fournisseurs (
			id         text PRIMARY KEY,
			user_id    text NOT NULL,
			name       text NOT NULL,
			currency   text NOT NULL DEFAULT 'USD',
			currencies text[],
			balance    numeric NOT NULL DEFAULT 0,
			image      text,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id             text PRIMARY KEY,
			user_id        text NOT NULL,
			type           text NOT NULL,
			amount         numeric NOT NULL,
			rate           numeric NOT NULL DEFAULT 1,
			description    text NOT NULL DEFAULT '',
			company_id     text,
			fournisseur_id text,
			currency_tx_id text,
			created_at     timestamptz NOT NULL DEFAULT now(),
			updated_at     timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS currency_companies (
			id                    text PRIMARY KEY,
			user_id               text NOT NULL,
			name                  text NOT NULL,
			base_currency         text NOT NULL DEFAULT 'USD',
			base_currencies       text[],
			target_currency       text NOT NULL DEFAULT 'DZD',
			target_currencies     text[],
			exchange_rate         numeric NOT NULL DEFAULT 0,
			commission_percentage numeric NOT NULL DEFAULT 0,
			description           text NOT NULL DEFAULT '',
			image                 text,
			is_active             boolean NOT NULL DEFAULT true,
			created_at            timestamptz NOT NULL DEFAULT now(),
			updated_at            timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS currency_transactions (
			id                  text PRIMARY KEY,
			user_id             text NOT NULL,
			currency_company_id text NOT NULL,
			from_amount         numeric NOT NULL DEFAULT 0,
			to_amount           numeric NOT NULL DEFAULT 0,
			exchange_rate_used  numeric NOT NULL DEFAULT 0,
			commission_amount   numeric NOT NULL DEFAULT 0,
			description         text NOT NULL DEFAULT '',
			usd_fournisseur_id  text,
			dzd_company_id      text,
			usd_description     text,
			dzd_description     text,
			created_at          timestamptz NOT NULL DEFAULT now(),
			updated_at          timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS fund_capital (
			user_id       text PRIMARY KEY,
			amount        numeric NOT NULL DEFAULT 0,
			password_hash text,
			updated_at    timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS fund_transactions (
			id          text PRIMARY KEY,
			user_id     text NOT NULL,
			type        text NOT NULL,
			amount      numeric NOT NULL,
			description text NOT NULL DEFAULT '',
			created_at  timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trash (
			id         text PRIMARY KEY,
			user_id    text NOT NULL,
			item_type  text NOT NULL,
			item_data  jsonb NOT NULL,
			deleted_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_currency_transactions_user ON currency_transactions (user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
