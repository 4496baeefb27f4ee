package repository

import (
	"context"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// IConnectedAccount is the metadata side of the account registry. Listing
// paths never touch secret material.
type IConnectedAccount interface {
	// Upsert inserts or refreshes the row keyed by
	// (tenant_id, platform, external_account_id) and returns its current
	// state. Re-authorization goes through here; no duplicates are created.
	Upsert(ctx context.Context, account *model.ConnectedAccount) (*model.ConnectedAccount, error)
	// GetByID returns ErrNotConnected when no such account exists.
	GetByID(ctx context.Context, accountID int64) (*model.ConnectedAccount, error)
	// List returns metadata for a tenant, optionally filtered by platform
	// (empty platform means all).
	List(ctx context.Context, tenantID string, platform model.Platform) ([]*model.ConnectedAccount, error)
	// SetStatus moves an account to active/revoked/expired. Rows are never
	// hard-deleted while publish history references them.
	SetStatus(ctx context.Context, accountID int64, status string) error
}

// IAccountSecret is the secrets side-table, 1:1 with connected accounts.
// Read individually at publish time only, never in bulk.
type IAccountSecret interface {
	Upsert(ctx context.Context, accountID int64, bundle model.TokenBundle) error
	Get(ctx context.Context, accountID int64) (*model.AccountSecret, error)
}
