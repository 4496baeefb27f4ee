package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// AccountSecretRepository is the secrets side-table, 1:1 with
// connected_accounts via the unique account_id.
type AccountSecretRepository struct{ db *sql.DB }

func NewAccountSecretRepository(db *sql.DB) *AccountSecretRepository {
	return &AccountSecretRepository{db: db}
}

func (r *AccountSecretRepository) Upsert(ctx context.Context, accountID int64, bundle model.TokenBundle) error {
	now := time.Now().UTC()
	tokenType := bundle.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	q := `INSERT INTO connected_account_secrets (account_id, access_token, token_type, scopes, expires_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$6)
		  ON CONFLICT (account_id) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			token_type=EXCLUDED.token_type,
			scopes=EXCLUDED.scopes,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, accountID, bundle.AccessToken, tokenType, bundle.Scopes, bundle.ExpiresAt, now)
	return err
}

func (r *AccountSecretRepository) Get(ctx context.Context, accountID int64) (*model.AccountSecret, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT account_id, access_token, token_type, scopes, expires_at, created_at, updated_at
		 FROM connected_account_secrets WHERE account_id=$1`, accountID)
	sec := &model.AccountSecret{}
	var exp sql.NullTime
	if err := row.Scan(&sec.AccountID, &sec.AccessToken, &sec.TokenType, &sec.Scopes, &exp, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotConnected
		}
		return nil, err
	}
	if exp.Valid {
		sec.ExpiresAt = &exp.Time
	}
	return sec, nil
}
