package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/infrastructure/utils"
)

// Per-target error codes surfaced in publish results. Provider rejections
// carry their sanitized message instead.
const (
	publishErrNotConnected = "not_connected"
	publishErrExpired      = "expired"
	publishErrUnsupported  = "unsupported_post_type"
	publishErrTimeout      = "timeout"
)

// PublishOptions tunes the fan-out.
type PublishOptions struct {
	// WorkerLimit bounds concurrent per-target publishes. 0 falls back to 4.
	WorkerLimit int
	// ProviderTimeout bounds each outbound provider call. 0 falls back to 30s.
	ProviderTimeout time.Duration
}

func (o PublishOptions) workerLimit() int {
	if o.WorkerLimit <= 0 {
		return 4
	}
	return o.WorkerLimit
}

func (o PublishOptions) providerTimeout() time.Duration {
	if o.ProviderTimeout <= 0 {
		return 30 * time.Second
	}
	return o.ProviderTimeout
}

type IPublishUsecase interface {
	// Publish runs one request against all its targets and returns one result
	// per deduplicated target, regardless of how many fail.
	Publish(ctx context.Context, tenantID string, req model.PublishRequest) (*model.PublishResponse, error)
	// Schedule parks a validated request until scheduledAt.
	Schedule(ctx context.Context, tenantID string, req model.PublishRequest, scheduledAt time.Time) (*model.ScheduledPost, error)
	ListScheduled(ctx context.Context, tenantID string, status string) ([]*model.ScheduledPost, error)
	CancelScheduled(ctx context.Context, tenantID string, postID int64) error
	// ProcessDue claims up to batch due scheduled posts and publishes them.
	// It returns how many posts were processed.
	ProcessDue(ctx context.Context, batch int) (int, error)
}

type publishUsecase struct {
	adapters      map[model.AdapterKey]repository.IPublisher
	accounts      IAccountUsecase
	logRepo       repository.IPublishLog
	scheduledRepo repository.IScheduledPost
	opts          PublishOptions
	now           func() time.Time
}

func NewPublishUsecase(
	adapters map[model.AdapterKey]repository.IPublisher,
	accounts IAccountUsecase,
	logRepo repository.IPublishLog,
	scheduledRepo repository.IScheduledPost,
	opts PublishOptions,
) IPublishUsecase {
	return &publishUsecase{
		adapters:      adapters,
		accounts:      accounts,
		logRepo:       logRepo,
		scheduledRepo: scheduledRepo,
		opts:          opts,
		now:           utils.GetCurrentTime,
	}
}

func (u *publishUsecase) Publish(ctx context.Context, tenantID string, req model.PublishRequest) (*model.PublishResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	targets := req.DedupTargets()

	// One result slot per target; slots are disjoint so the goroutines never
	// contend.
	results := make([]model.PublishResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.workerLimit())
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = u.publishOne(gctx, tenantID, target, req)
			return nil
		})
	}
	// Workers never return errors; failures live in their result slot.
	_ = g.Wait()

	ok := true
	for _, r := range results {
		if !r.OK {
			ok = false
			break
		}
	}
	u.writeLogs(ctx, tenantID, req, results)
	return &model.PublishResponse{OK: ok, Results: results}, nil
}

// publishOne resolves one target's credentials, picks the adapter and runs the
// provider call. Every failure mode collapses into the returned result.
func (u *publishUsecase) publishOne(ctx context.Context, tenantID string, target model.PublishTarget, req model.PublishRequest) model.PublishResult {
	result := model.PublishResult{AccountID: target.AccountID, Platform: target.Platform}

	account, token, err := u.accounts.ResolveSecret(ctx, tenantID, target.AccountID)
	if err != nil {
		result.Error = classifyResolveError(err)
		return result
	}
	// The registry's platform is authoritative over what the caller claimed.
	result.Platform = account.Platform

	adapter, ok := u.adapters[model.AdapterKey{Platform: account.Platform, PostType: req.PostType}]
	if !ok {
		result.Error = publishErrUnsupported
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, u.opts.providerTimeout())
	defer cancel()
	providerResult, err := adapter.Publish(callCtx, account, token, req)
	if err != nil {
		logger.GetLogger().WithField("account_id", target.AccountID).
			WithField("platform", account.Platform).
			WithField("error", err).Warn("Publish target failed")
		if errors.Is(err, context.DeadlineExceeded) {
			result.Error = publishErrTimeout
		} else {
			result.Error = err.Error()
		}
		return result
	}
	result.OK = true
	result.ProviderResult = providerResult
	return result
}

func classifyResolveError(err error) string {
	switch {
	case errors.Is(err, model.ErrNotConnected):
		return publishErrNotConnected
	case errors.Is(err, model.ErrTokenExpired):
		return publishErrExpired
	default:
		return err.Error()
	}
}

// writeLogs appends one row per target outcome. Logging failures never fail
// the publish.
func (u *publishUsecase) writeLogs(ctx context.Context, tenantID string, req model.PublishRequest, results []model.PublishResult) {
	logs := make([]*model.PublishLog, 0, len(results))
	now := u.now().UTC()
	for _, r := range results {
		entry := &model.PublishLog{
			TenantID:  tenantID,
			AccountID: r.AccountID,
			Platform:  r.Platform,
			PostType:  req.PostType,
			Caption:   req.Caption,
			OK:        r.OK,
			CreatedAt: now,
		}
		if r.ProviderResult != nil && r.ProviderResult.PostID != "" {
			ref := r.ProviderResult.PostID
			entry.ExternalRef = &ref
		}
		if r.Error != "" {
			msg := r.Error
			entry.ErrorMessage = &msg
		}
		logs = append(logs, entry)
	}
	if err := u.logRepo.Create(ctx, logs); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to write publish logs")
	}
}

func (u *publishUsecase) Schedule(ctx context.Context, tenantID string, req model.PublishRequest, scheduledAt time.Time) (*model.ScheduledPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !scheduledAt.After(u.now()) {
		return nil, fmt.Errorf("%w: scheduled_at must be in the future", model.ErrInvalidRequest)
	}
	return u.scheduledRepo.Create(ctx, &model.ScheduledPost{
		TenantID:    tenantID,
		PostType:    req.PostType,
		Caption:     req.Caption,
		MediaURLs:   req.MediaURLs,
		Targets:     req.DedupTargets(),
		ScheduledAt: scheduledAt,
	})
}

func (u *publishUsecase) ListScheduled(ctx context.Context, tenantID string, status string) ([]*model.ScheduledPost, error) {
	return u.scheduledRepo.ListByTenant(ctx, tenantID, status)
}

func (u *publishUsecase) CancelScheduled(ctx context.Context, tenantID string, postID int64) error {
	cancelled, err := u.scheduledRepo.Cancel(ctx, tenantID, postID)
	if err != nil {
		return err
	}
	if !cancelled {
		return fmt.Errorf("%w: scheduled post %d is not pending", model.ErrInvalidRequest, postID)
	}
	return nil
}

func (u *publishUsecase) ProcessDue(ctx context.Context, batch int) (int, error) {
	posts, err := u.scheduledRepo.ClaimDue(ctx, batch)
	if err != nil {
		return 0, err
	}
	lg := logger.GetLogger()
	for _, post := range posts {
		status := model.ScheduledStatusPublished
		resp, err := u.Publish(ctx, post.TenantID, post.Request())
		if err != nil || !resp.OK {
			status = model.ScheduledStatusFailed
		}
		if err != nil {
			lg.WithField("post_id", post.ID).WithField("error", err).Warn("Scheduled post failed")
		}
		if err := u.scheduledRepo.UpdateStatus(ctx, post.ID, status); err != nil {
			lg.WithField("post_id", post.ID).WithField("error", err).Error("Failed to update scheduled post status")
		}
	}
	return len(posts), nil
}
