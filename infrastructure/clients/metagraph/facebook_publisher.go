package metagraph

import (
	"context"
	"errors"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
)

// Facebook publish adapters. The account's external id is the Page ID and the
// resolved secret is the page-scoped token.

type FacebookTextPublisher struct{ client *Client }

func NewFacebookTextPublisher(client *Client) *FacebookTextPublisher {
	return &FacebookTextPublisher{client: client}
}

func (p *FacebookTextPublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	id, err := p.client.CreatePagePost(ctx, account.ExternalAccountID, accessToken, req.Caption, "")
	if err != nil {
		return nil, wrapPublishError(model.PlatformFacebook, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

type FacebookImagePublisher struct{ client *Client }

func NewFacebookImagePublisher(client *Client) *FacebookImagePublisher {
	return &FacebookImagePublisher{client: client}
}

func (p *FacebookImagePublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	id, err := p.client.CreatePagePhotoPost(ctx, account.ExternalAccountID, accessToken, req.MediaURLs[0], req.Caption)
	if err != nil {
		return nil, wrapPublishError(model.PlatformFacebook, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

type FacebookVideoPublisher struct{ client *Client }

func NewFacebookVideoPublisher(client *Client) *FacebookVideoPublisher {
	return &FacebookVideoPublisher{client: client}
}

func (p *FacebookVideoPublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	id, err := p.client.CreatePageVideoPost(ctx, account.ExternalAccountID, accessToken, req.MediaURLs[0], req.Caption)
	if err != nil {
		return nil, wrapPublishError(model.PlatformFacebook, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

// FacebookCarouselWarning is attached whenever a carousel lands on a page.
const FacebookCarouselWarning = "facebook pages do not support carousels; only the first media item was published"

// FacebookCarouselPublisher handles carousels in degraded mode: the first
// media item is published as a single photo or video post and the result
// carries an explicit warning. Rejecting the whole request over one
// destination would defeat the fan-out; a silent partial publish would hide
// data loss.
type FacebookCarouselPublisher struct{ client *Client }

func NewFacebookCarouselPublisher(client *Client) *FacebookCarouselPublisher {
	return &FacebookCarouselPublisher{client: client}
}

func (p *FacebookCarouselPublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	first := req.MediaURLs[0]
	var id string
	var err error
	if model.IsVideoURL(first) {
		id, err = p.client.CreatePageVideoPost(ctx, account.ExternalAccountID, accessToken, first, req.Caption)
	} else {
		id, err = p.client.CreatePagePhotoPost(ctx, account.ExternalAccountID, accessToken, first, req.Caption)
	}
	if err != nil {
		return nil, wrapPublishError(model.PlatformFacebook, err)
	}
	return &model.ProviderResult{PostID: id, Warning: FacebookCarouselWarning}, nil
}

var (
	_ repository.IPublisher = (*FacebookTextPublisher)(nil)
	_ repository.IPublisher = (*FacebookImagePublisher)(nil)
	_ repository.IPublisher = (*FacebookVideoPublisher)(nil)
	_ repository.IPublisher = (*FacebookCarouselPublisher)(nil)
)

// wrapPublishError turns Graph API rejections into sanitized publish errors;
// transport failures (timeouts, DNS) pass through untouched.
func wrapPublishError(platform model.Platform, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &model.ProviderPublishError{Platform: platform, StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}
