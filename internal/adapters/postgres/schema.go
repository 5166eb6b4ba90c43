package postgres

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"
)

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		id                  UUID PRIMARY KEY,
		email               VARCHAR(255) UNIQUE NOT NULL,
		plaid_access_token  TEXT,
		stripe_customer_id  VARCHAR(255),
		selected_account_id VARCHAR(255),
		created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// Rows are written lower-cased; the index also guards manual inserts.
const createEmailIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (LOWER(email))
`

var _ ports.SchemaMigrator = (*DB)(nil)

// Migrate creates the users table if it does not exist. Safe to repeat.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, createUsersTable); err != nil {
		db.log.Error().Err(err).Msg("Failed to create users table")
		return err
	}
	if _, err := db.pool.Exec(ctx, createEmailIndex); err != nil {
		db.log.Error().Err(err).Msg("Failed to create email index")
		return err
	}
	db.log.Info().Msg("Schema is up to date")
	return nil
}
