package metagraph

import (
	"context"
	"net/url"
	"time"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
)

const (
	facebookScopes  = "pages_show_list,pages_read_engagement,pages_manage_posts,public_profile"
	instagramScopes = "pages_show_list,instagram_basic,instagram_content_publish,business_management"
)

// FacebookExchanger implements the credential exchange for Facebook Pages.
// One authorization yields one identity per manageable page, each carrying
// its page-scoped token.
type FacebookExchanger struct {
	client *Client
}

func NewFacebookExchanger(client *Client) *FacebookExchanger {
	return &FacebookExchanger{client: client}
}

var _ repository.IExchanger = (*FacebookExchanger)(nil)

func (e *FacebookExchanger) AuthorizationURL(state string) string {
	return e.client.dialogAuthURL(state, facebookScopes)
}

func (e *FacebookExchanger) ExchangeCode(ctx context.Context, code string) (model.TokenBundle, error) {
	return exchangeLongLivedBundle(ctx, e.client, model.PlatformFacebook, code, facebookScopes)
}

func (e *FacebookExchanger) FetchIdentities(ctx context.Context, bundle model.TokenBundle) ([]model.Identity, error) {
	pages, err := e.client.ListPages(ctx, bundle.AccessToken)
	if err != nil {
		return nil, &model.AuthExchangeError{Platform: model.PlatformFacebook, Step: "fetch_identity", Err: err}
	}
	identities := make([]model.Identity, 0, len(pages))
	for _, p := range pages {
		// Page tokens derived from a long-lived user token do not expire.
		identities = append(identities, model.Identity{
			ExternalID:  p.ID,
			DisplayName: p.Name,
			AvatarURL:   e.client.PagePictureURL(p.ID),
			Token: &model.TokenBundle{
				AccessToken: p.AccessToken,
				TokenType:   "page",
				Scopes:      bundle.Scopes,
			},
		})
	}
	return identities, nil
}

// InstagramExchanger connects Instagram Business accounts. Authorization goes
// through Facebook login; identities are the Instagram accounts attached to
// the user's pages and publish with the long-lived user token.
type InstagramExchanger struct {
	client *Client
}

func NewInstagramExchanger(client *Client) *InstagramExchanger {
	return &InstagramExchanger{client: client}
}

var _ repository.IExchanger = (*InstagramExchanger)(nil)

func (e *InstagramExchanger) AuthorizationURL(state string) string {
	return e.client.dialogAuthURL(state, instagramScopes)
}

func (e *InstagramExchanger) ExchangeCode(ctx context.Context, code string) (model.TokenBundle, error) {
	return exchangeLongLivedBundle(ctx, e.client, model.PlatformInstagram, code, instagramScopes)
}

func (e *InstagramExchanger) FetchIdentities(ctx context.Context, bundle model.TokenBundle) ([]model.Identity, error) {
	pages, err := e.client.ListPages(ctx, bundle.AccessToken)
	if err != nil {
		return nil, &model.AuthExchangeError{Platform: model.PlatformInstagram, Step: "fetch_identity", Err: err}
	}
	var identities []model.Identity
	for _, p := range pages {
		ig, err := e.client.GetInstagramAccount(ctx, p.ID, p.AccessToken)
		if err != nil {
			return nil, &model.AuthExchangeError{Platform: model.PlatformInstagram, Step: "fetch_identity", Err: err}
		}
		if ig == nil {
			continue
		}
		identities = append(identities, model.Identity{
			ExternalID:  ig.ID,
			DisplayName: ig.Username,
			AvatarURL:   ig.ProfilePictureURL,
		})
	}
	return identities, nil
}

func (c *Client) dialogAuthURL(state, scopes string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("state", state)
	q.Set("scope", scopes)
	q.Set("response_type", "code")
	return c.dialogURL + "?" + q.Encode()
}

// exchangeLongLivedBundle runs the two-step Meta exchange so callers only
// ever see the durable token.
func exchangeLongLivedBundle(ctx context.Context, c *Client, platform model.Platform, code, scopes string) (model.TokenBundle, error) {
	short, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return model.TokenBundle{}, &model.AuthExchangeError{Platform: platform, Step: "exchange_code", Err: err}
	}
	long, err := c.ExchangeLongLived(ctx, short.AccessToken)
	if err != nil {
		return model.TokenBundle{}, &model.AuthExchangeError{Platform: platform, Step: "long_lived_exchange", Err: err}
	}
	bundle := model.TokenBundle{
		AccessToken: long.AccessToken,
		TokenType:   "bearer",
		Scopes:      scopes,
	}
	if long.ExpiresIn > 0 {
		exp := time.Now().Add(time.Duration(long.ExpiresIn) * time.Second).UTC()
		bundle.ExpiresAt = &exp
	}
	return bundle, nil
}
