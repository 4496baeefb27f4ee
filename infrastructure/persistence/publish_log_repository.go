package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// PublishLogRepository appends per-target publish outcomes.
type PublishLogRepository struct{ db *sql.DB }

func NewPublishLogRepository(db *sql.DB) *PublishLogRepository {
	return &PublishLogRepository{db: db}
}

func (r *PublishLogRepository) Create(ctx context.Context, logs []*model.PublishLog) error {
	if len(logs) == 0 {
		return nil
	}
	q := `INSERT INTO publish_logs (tenant_id, account_id, platform, post_type, caption, ok, external_ref, error_message, created_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	now := time.Now().UTC()
	for _, l := range logs {
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		if _, err := r.db.ExecContext(ctx, q, l.TenantID, l.AccountID, l.Platform, l.PostType, l.Caption, l.OK, l.ExternalRef, l.ErrorMessage, l.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}
