package metagraph

import (
	"context"
	"strings"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
)

// Instagram publish adapters. The account's external id is the Instagram
// Business account id; publishing is the two-step container create +
// media_publish flow.

type InstagramImagePublisher struct{ client *Client }

func NewInstagramImagePublisher(client *Client) *InstagramImagePublisher {
	return &InstagramImagePublisher{client: client}
}

func (p *InstagramImagePublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	containerID, err := p.client.CreateMediaContainer(ctx, account.ExternalAccountID, ContainerParams{
		ImageURL:    req.MediaURLs[0],
		Caption:     req.Caption,
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	id, err := p.client.PublishMedia(ctx, account.ExternalAccountID, accessToken, containerID)
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

type InstagramVideoPublisher struct{ client *Client }

func NewInstagramVideoPublisher(client *Client) *InstagramVideoPublisher {
	return &InstagramVideoPublisher{client: client}
}

func (p *InstagramVideoPublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	containerID, err := p.client.CreateMediaContainer(ctx, account.ExternalAccountID, ContainerParams{
		VideoURL:    req.MediaURLs[0],
		MediaType:   "VIDEO",
		Caption:     req.Caption,
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	id, err := p.client.PublishMedia(ctx, account.ExternalAccountID, accessToken, containerID)
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

// InstagramCarouselPublisher creates one child container per media item, in
// request order, then a CAROUSEL parent referencing the children, then
// publishes the parent. Each child's image/video kind is inferred from the
// URL extension.
type InstagramCarouselPublisher struct{ client *Client }

func NewInstagramCarouselPublisher(client *Client) *InstagramCarouselPublisher {
	return &InstagramCarouselPublisher{client: client}
}

func (p *InstagramCarouselPublisher) Publish(ctx context.Context, account *model.ConnectedAccount, accessToken string, req model.PublishRequest) (*model.ProviderResult, error) {
	childIDs := make([]string, 0, len(req.MediaURLs))
	for _, mediaURL := range req.MediaURLs {
		params := ContainerParams{IsCarouselItem: true, AccessToken: accessToken}
		if model.IsVideoURL(mediaURL) {
			params.VideoURL = mediaURL
			params.MediaType = "VIDEO"
		} else {
			params.ImageURL = mediaURL
		}
		childID, err := p.client.CreateMediaContainer(ctx, account.ExternalAccountID, params)
		if err != nil {
			return nil, wrapPublishError(model.PlatformInstagram, err)
		}
		childIDs = append(childIDs, childID)
	}
	parentID, err := p.client.CreateMediaContainer(ctx, account.ExternalAccountID, ContainerParams{
		MediaType:   "CAROUSEL",
		Caption:     req.Caption,
		Children:    strings.Join(childIDs, ","),
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	id, err := p.client.PublishMedia(ctx, account.ExternalAccountID, accessToken, parentID)
	if err != nil {
		return nil, wrapPublishError(model.PlatformInstagram, err)
	}
	return &model.ProviderResult{PostID: id}, nil
}

var (
	_ repository.IPublisher = (*InstagramImagePublisher)(nil)
	_ repository.IPublisher = (*InstagramVideoPublisher)(nil)
	_ repository.IPublisher = (*InstagramCarouselPublisher)(nil)
)
