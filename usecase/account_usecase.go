package usecase

import (
	"context"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/infrastructure/utils"
)

type IAccountUsecase interface {
	List(ctx context.Context, tenantID string, platform model.Platform) ([]*model.ConnectedAccount, error)
	// Deactivate marks an account revoked. The row and its publish history
	// stay; only the status changes.
	Deactivate(ctx context.Context, tenantID string, accountID int64) error
	// ResolveSecret loads the account and its live token for a publish.
	// ErrNotConnected covers missing, foreign-tenant and revoked accounts;
	// a known-past expiry yields ErrTokenExpired and flips the account status.
	ResolveSecret(ctx context.Context, tenantID string, accountID int64) (*model.ConnectedAccount, string, error)
}

type accountUsecase struct {
	accountRepo repository.IConnectedAccount
	secretRepo  repository.IAccountSecret
	now         func() time.Time
}

func NewAccountUsecase(accountRepo repository.IConnectedAccount, secretRepo repository.IAccountSecret) IAccountUsecase {
	return &accountUsecase{accountRepo: accountRepo, secretRepo: secretRepo, now: utils.GetCurrentTime}
}

func (u *accountUsecase) List(ctx context.Context, tenantID string, platform model.Platform) ([]*model.ConnectedAccount, error) {
	return u.accountRepo.List(ctx, tenantID, platform)
}

func (u *accountUsecase) Deactivate(ctx context.Context, tenantID string, accountID int64) error {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil || account.TenantID != tenantID {
		return model.ErrNotConnected
	}
	return u.accountRepo.SetStatus(ctx, accountID, model.AccountStatusRevoked)
}

func (u *accountUsecase) ResolveSecret(ctx context.Context, tenantID string, accountID int64) (*model.ConnectedAccount, string, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	if account == nil || account.TenantID != tenantID {
		return nil, "", model.ErrNotConnected
	}
	switch account.Status {
	case model.AccountStatusRevoked:
		return nil, "", model.ErrNotConnected
	case model.AccountStatusExpired:
		return nil, "", model.ErrTokenExpired
	}
	secret, err := u.secretRepo.Get(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	if secret.ExpiresAt != nil && secret.ExpiresAt.Before(u.now()) {
		if err := u.accountRepo.SetStatus(ctx, accountID, model.AccountStatusExpired); err != nil {
			logger.GetLogger().WithField("account_id", accountID).WithField("error", err).Warn("Failed to mark account expired")
		}
		return nil, "", model.ErrTokenExpired
	}
	return account, secret.AccessToken, nil
}
