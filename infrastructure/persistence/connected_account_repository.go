package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// ConnectedAccountRepository persists account metadata. Secret material lives
// in AccountSecretRepository; no query here touches it.
type ConnectedAccountRepository struct{ db *sql.DB }

func NewConnectedAccountRepository(db *sql.DB) *ConnectedAccountRepository {
	return &ConnectedAccountRepository{db: db}
}

const connectedAccountColumns = `id, tenant_id, platform, external_account_id, display_name, avatar_url, status, created_at, updated_at`

func (r *ConnectedAccountRepository) Upsert(ctx context.Context, account *model.ConnectedAccount) (*model.ConnectedAccount, error) {
	now := time.Now().UTC()
	status := account.Status
	if status == "" {
		status = model.AccountStatusActive
	}
	q := `INSERT INTO connected_accounts (tenant_id, platform, external_account_id, display_name, avatar_url, status, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		  ON CONFLICT (tenant_id, platform, external_account_id) DO UPDATE SET
			display_name=EXCLUDED.display_name,
			avatar_url=EXCLUDED.avatar_url,
			status=EXCLUDED.status,
			updated_at=EXCLUDED.updated_at
		  RETURNING ` + connectedAccountColumns
	row := r.db.QueryRowContext(ctx, q,
		account.TenantID, account.Platform, account.ExternalAccountID,
		account.DisplayName, account.AvatarURL, status, now)
	return scanConnectedAccount(row)
}

func (r *ConnectedAccountRepository) GetByID(ctx context.Context, accountID int64) (*model.ConnectedAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+connectedAccountColumns+` FROM connected_accounts WHERE id=$1`, accountID)
	acc, err := scanConnectedAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotConnected
	}
	return acc, err
}

func (r *ConnectedAccountRepository) List(ctx context.Context, tenantID string, platform model.Platform) ([]*model.ConnectedAccount, error) {
	q := `SELECT ` + connectedAccountColumns + ` FROM connected_accounts WHERE tenant_id=$1`
	args := []interface{}{tenantID}
	if platform != "" {
		q += ` AND platform=$2`
		args = append(args, platform)
	}
	q += ` ORDER BY platform, display_name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.ConnectedAccount
	for rows.Next() {
		acc, err := scanConnectedAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, acc)
	}
	return list, rows.Err()
}

func (r *ConnectedAccountRepository) SetStatus(ctx context.Context, accountID int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE connected_accounts SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now().UTC(), accountID)
	return err
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanConnectedAccount(row rowScanner) (*model.ConnectedAccount, error) {
	acc := &model.ConnectedAccount{}
	if err := row.Scan(&acc.ID, &acc.TenantID, &acc.Platform, &acc.ExternalAccountID,
		&acc.DisplayName, &acc.AvatarURL, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	return acc, nil
}
