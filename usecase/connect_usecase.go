package usecase

import (
	"context"
	"fmt"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/infrastructure/oauthstate"
)

// CallbackResult is what a completed OAuth callback produced.
type CallbackResult struct {
	TenantID string
	Platform model.Platform
	Accounts []*model.ConnectedAccount
}

type IConnectUsecase interface {
	// AuthURL mints a signed state for the tenant and returns the provider
	// consent URL to redirect the user to.
	AuthURL(tenantID string, platform model.Platform) (string, error)
	// HandleCallback verifies and consumes the state, exchanges the code and
	// upserts one connected account per identity the provider returned.
	HandleCallback(ctx context.Context, rawState, code string) (*CallbackResult, error)
}

type connectUsecase struct {
	exchangers  map[model.Platform]repository.IExchanger
	accountRepo repository.IConnectedAccount
	secretRepo  repository.IAccountSecret
	signer      *oauthstate.Signer
	nonces      repository.IStateNonce
}

func NewConnectUsecase(
	exchangers map[model.Platform]repository.IExchanger,
	accountRepo repository.IConnectedAccount,
	secretRepo repository.IAccountSecret,
	signer *oauthstate.Signer,
	nonces repository.IStateNonce,
) IConnectUsecase {
	return &connectUsecase{
		exchangers:  exchangers,
		accountRepo: accountRepo,
		secretRepo:  secretRepo,
		signer:      signer,
		nonces:      nonces,
	}
}

func (u *connectUsecase) AuthURL(tenantID string, platform model.Platform) (string, error) {
	exchanger, ok := u.exchangers[platform]
	if !ok {
		return "", fmt.Errorf("no exchanger configured for platform %q", platform)
	}
	state, err := u.signer.Sign(tenantID, platform)
	if err != nil {
		return "", err
	}
	return exchanger.AuthorizationURL(state), nil
}

func (u *connectUsecase) HandleCallback(ctx context.Context, rawState, code string) (*CallbackResult, error) {
	claims, err := u.signer.Verify(rawState)
	if err != nil {
		return nil, err
	}
	fresh, err := u.nonces.Consume(ctx, claims.Nonce(), oauthstate.DefaultTTL)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, model.ErrStateReplayed
	}
	exchanger, ok := u.exchangers[claims.Platform]
	if !ok {
		return nil, fmt.Errorf("no exchanger configured for platform %q", claims.Platform)
	}

	bundle, err := exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	identities, err := exchanger.FetchIdentities(ctx, bundle)
	if err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("%s authorization yielded no connectable accounts", claims.Platform)
	}

	lg := logger.GetLogger()
	result := &CallbackResult{TenantID: claims.TenantID, Platform: claims.Platform}
	for _, identity := range identities {
		account, err := u.accountRepo.Upsert(ctx, &model.ConnectedAccount{
			TenantID:          claims.TenantID,
			Platform:          claims.Platform,
			ExternalAccountID: identity.ExternalID,
			DisplayName:       identity.DisplayName,
			AvatarURL:         identity.AvatarURL,
			Status:            model.AccountStatusActive,
		})
		if err != nil {
			return nil, fmt.Errorf("upserting connected account: %w", err)
		}
		secret := bundle
		if identity.Token != nil {
			secret = *identity.Token
		}
		if err := u.secretRepo.Upsert(ctx, account.ID, secret); err != nil {
			return nil, fmt.Errorf("storing account secret: %w", err)
		}
		result.Accounts = append(result.Accounts, account)
	}
	lg.WithField("tenant_id", claims.TenantID).
		WithField("platform", claims.Platform).
		WithField("accounts", len(result.Accounts)).
		Info("OAuth callback connected accounts")
	return result, nil
}
