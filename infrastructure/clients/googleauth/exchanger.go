// Package googleauth connects Google accounts through the standard OAuth2
// flow and the userinfo API.
package googleauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
)

var scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// Config carries the OAuth client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Exchanger implements the credential exchange for Google accounts. One
// authorization yields one identity, the Google account itself.
type Exchanger struct {
	oauth *oauth2.Config
}

func NewExchanger(cfg Config) *Exchanger {
	return &Exchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

var _ repository.IExchanger = (*Exchanger)(nil)

func (e *Exchanger) AuthorizationURL(state string) string {
	// Offline access so the refresh token survives the session.
	return e.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (model.TokenBundle, error) {
	token, err := e.oauth.Exchange(ctx, code)
	if err != nil {
		return model.TokenBundle{}, &model.AuthExchangeError{Platform: model.PlatformGoogle, Step: "exchange_code", Err: err}
	}
	bundle := model.TokenBundle{
		AccessToken: token.AccessToken,
		TokenType:   "bearer",
		Scopes:      "userinfo.email userinfo.profile",
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		bundle.ExpiresAt = &exp
	}
	return bundle, nil
}

func (e *Exchanger) FetchIdentities(ctx context.Context, bundle model.TokenBundle) ([]model.Identity, error) {
	src := e.oauth.TokenSource(ctx, &oauth2.Token{AccessToken: bundle.AccessToken})
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, &model.AuthExchangeError{Platform: model.PlatformGoogle, Step: "fetch_identity", Err: err}
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, &model.AuthExchangeError{Platform: model.PlatformGoogle, Step: "fetch_identity", Err: err}
	}
	display := info.Name
	if display == "" {
		display = info.Email
	}
	return []model.Identity{{
		ExternalID:  info.Id,
		DisplayName: display,
		AvatarURL:   info.Picture,
	}}, nil
}
