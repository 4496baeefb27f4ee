package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// ScheduledPostRepository stores publish requests parked until their
// scheduled time. Media and target lists are serialized JSON text, matching
// how the dashboard stores them.
type ScheduledPostRepository struct{ db *sql.DB }

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, tenant_id, post_type, caption, media_urls, targets, scheduled_at, status, created_at, updated_at`

func (r *ScheduledPostRepository) Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error) {
	media, err := json.Marshal(post.MediaURLs)
	if err != nil {
		return nil, err
	}
	targets, err := json.Marshal(post.Targets)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO scheduled_posts (tenant_id, post_type, caption, media_urls, targets, scheduled_at, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		 RETURNING `+scheduledPostColumns,
		post.TenantID, post.PostType, post.Caption, string(media), string(targets),
		post.ScheduledAt.UTC(), model.ScheduledStatusPending, now)
	return scanScheduledPost(row)
}

func (r *ScheduledPostRepository) ListByTenant(ctx context.Context, tenantID string, status string) ([]*model.ScheduledPost, error) {
	q := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE tenant_id=$1`
	args := []interface{}{tenantID}
	if status != "" {
		q += ` AND status=$2`
		args = append(args, status)
	}
	q += ` ORDER BY scheduled_at ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.ScheduledPost
	for rows.Next() {
		p, err := scanScheduledPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ClaimDue flips due pending rows to running and returns them, so concurrent
// sweeps never double-publish a post.
func (r *ScheduledPostRepository) ClaimDue(ctx context.Context, limit int) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`UPDATE scheduled_posts SET status=$1, updated_at=$2
		 WHERE id IN (
			SELECT id FROM scheduled_posts
			WHERE status=$3 AND scheduled_at <= $2
			ORDER BY scheduled_at ASC LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+scheduledPostColumns,
		model.ScheduledStatusRunning, time.Now().UTC(), model.ScheduledStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.ScheduledPost
	for rows.Next() {
		p, err := scanScheduledPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ScheduledPostRepository) UpdateStatus(ctx context.Context, postID int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now().UTC(), postID)
	return err
}

func (r *ScheduledPostRepository) Cancel(ctx context.Context, tenantID string, postID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status=$1, updated_at=$2 WHERE id=$3 AND tenant_id=$4 AND status=$5`,
		model.ScheduledStatusCancelled, time.Now().UTC(), postID, tenantID, model.ScheduledStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanScheduledPost(row rowScanner) (*model.ScheduledPost, error) {
	p := &model.ScheduledPost{}
	var media, targets string
	if err := row.Scan(&p.ID, &p.TenantID, &p.PostType, &p.Caption, &media, &targets,
		&p.ScheduledAt, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(media), &p.MediaURLs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(targets), &p.Targets); err != nil {
		return nil, err
	}
	return p, nil
}
