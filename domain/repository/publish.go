package repository

import (
	"context"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// IPublisher is one publish adapter: a single (platform, post_type) cell of
// the adapter matrix. The access token is resolved by the orchestrator and
// handed in; adapters never read storage.
type IPublisher interface {
	Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error)
}

// IPublishLog records per-target outcomes, success and failure alike.
type IPublishLog interface {
	Create(ctx context.Context, logs []*model.PublishLog) error
}

// IScheduledPost stores publish requests parked until their scheduled time.
type IScheduledPost interface {
	Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error)
	ListByTenant(ctx context.Context, tenantID string, status string) ([]*model.ScheduledPost, error)
	// ClaimDue atomically moves up to limit due pending rows to running and
	// returns them.
	ClaimDue(ctx context.Context, limit int) ([]*model.ScheduledPost, error)
	UpdateStatus(ctx context.Context, postID int64, status string) error
	// Cancel marks a pending post cancelled; it reports whether a row
	// actually transitioned.
	Cancel(ctx context.Context, tenantID string, postID int64) (bool, error)
}
