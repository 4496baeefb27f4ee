package linkedinapi

import (
	"context"
	"strings"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
)

// Exchanger implements the credential exchange for LinkedIn members. One
// authorization yields exactly one identity, the member themselves.
type Exchanger struct {
	client *Client
}

func NewExchanger(client *Client) *Exchanger {
	return &Exchanger{client: client}
}

var _ repository.IExchanger = (*Exchanger)(nil)

func (e *Exchanger) AuthorizationURL(state string) string {
	return e.client.AuthCodeURL(state)
}

func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (model.TokenBundle, error) {
	token, err := e.client.Exchange(ctx, code)
	if err != nil {
		return model.TokenBundle{}, &model.AuthExchangeError{Platform: model.PlatformLinkedIn, Step: "exchange_code", Err: err}
	}
	bundle := model.TokenBundle{
		AccessToken: token.AccessToken,
		TokenType:   "bearer",
		Scopes:      strings.Join(scopes, " "),
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		bundle.ExpiresAt = &exp
	}
	return bundle, nil
}

func (e *Exchanger) FetchIdentities(ctx context.Context, bundle model.TokenBundle) ([]model.Identity, error) {
	info, err := e.client.GetUserInfo(ctx, bundle.AccessToken)
	if err != nil {
		return nil, &model.AuthExchangeError{Platform: model.PlatformLinkedIn, Step: "fetch_identity", Err: err}
	}
	return []model.Identity{{
		ExternalID:  info.Sub,
		DisplayName: info.Name,
		AvatarURL:   info.Picture,
	}}, nil
}
