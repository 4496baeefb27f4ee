package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSocialSchema creates the connected-account and publish tables when
// missing. Safe to call at startup.
func EnsureSocialSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS connected_accounts (
			id BIGSERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			external_account_id TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (tenant_id, platform, external_account_id)
		)`,
		`CREATE TABLE IF NOT EXISTS connected_account_secrets (
			account_id BIGINT NOT NULL UNIQUE REFERENCES connected_accounts(id),
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL DEFAULT 'bearer',
			scopes TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS publish_logs (
			id BIGSERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			account_id BIGINT NOT NULL,
			platform TEXT NOT NULL,
			post_type TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			ok BOOLEAN NOT NULL,
			external_ref TEXT,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scheduled_posts (
			id BIGSERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			post_type TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			media_urls TEXT NOT NULL DEFAULT '[]',
			targets TEXT NOT NULL DEFAULT '[]',
			scheduled_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensuring social schema failed: %w", err)
		}
	}
	return nil
}
