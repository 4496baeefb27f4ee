// Package metagraph is the Meta (Facebook/Instagram) Graph API client used by
// the credential exchangers and the publish adapters.
package metagraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

const (
	// DefaultBaseURL is the Graph API host used for token, identity and
	// publish calls.
	DefaultBaseURL = "https://graph.facebook.com/v19.0"
	// DefaultDialogURL is the consent dialog shown to the user.
	DefaultDialogURL = "https://www.facebook.com/v19.0/dialog/oauth"
)

// Config carries everything the client needs; nothing is read from ambient
// globals so tests can point it at a fake server.
type Config struct {
	BaseURL      string
	DialogURL    string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client
}

type Client struct {
	baseURL      string
	dialogURL    string
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		dialogURL:    cfg.DialogURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		httpClient:   cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.dialogURL == "" {
		c.dialogURL = DefaultDialogURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// APIError is a non-2xx or error-bearing Graph response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error (status %d): %s", e.StatusCode, e.Message)
}

type graphErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// get performs a GET with params encoded into the query string.
func (c *Client) get(ctx context.Context, path string, params interface{}, out interface{}) error {
	vals, err := query.Values(params)
	if err != nil {
		return err
	}
	u := c.baseURL + path + "?" + vals.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postForm performs a form-encoded POST, the content type Graph publish
// endpoints expect.
func (c *Client) postForm(ctx context.Context, path string, params interface{}, out interface{}) error {
	vals, err := query.Values(params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(vals.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb graphErrorBody
		msg := ""
		if json.Unmarshal(body, &eb) == nil {
			msg = eb.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	// Graph occasionally returns 200 with an error payload.
	var eb graphErrorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error.Message}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding graph response: %w", err)
		}
	}
	return nil
}

// TokenResponse is the token endpoint payload for both the code exchange and
// the long-lived exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type exchangeCodeParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ClientSecret string `url:"client_secret"`
	Code         string `url:"code"`
}

// ExchangeCode trades an authorization code for a short-lived user token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.get(ctx, "/oauth/access_token", exchangeCodeParams{
		ClientID:     c.clientID,
		RedirectURI:  c.redirectURI,
		ClientSecret: c.clientSecret,
		Code:         code,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type longLivedParams struct {
	GrantType       string `url:"grant_type"`
	ClientID        string `url:"client_id"`
	ClientSecret    string `url:"client_secret"`
	FBExchangeToken string `url:"fb_exchange_token"`
}

// ExchangeLongLived trades a short-lived user token for the durable one.
func (c *Client) ExchangeLongLived(ctx context.Context, shortToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.get(ctx, "/oauth/access_token", longLivedParams{
		GrantType:       "fb_exchange_token",
		ClientID:        c.clientID,
		ClientSecret:    c.clientSecret,
		FBExchangeToken: shortToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Page is one Facebook Page reachable by a user token, with its page-scoped
// access token.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type accessTokenParams struct {
	AccessToken string `url:"access_token"`
}

// ListPages enumerates every page the user token can manage.
func (c *Client) ListPages(ctx context.Context, userToken string) ([]Page, error) {
	var out struct {
		Data []Page `json:"data"`
	}
	if err := c.get(ctx, "/me/accounts", accessTokenParams{AccessToken: userToken}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// InstagramAccount is the Instagram Business account attached to a page.
type InstagramAccount struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

type igAccountParams struct {
	Fields      string `url:"fields"`
	AccessToken string `url:"access_token"`
}

// GetInstagramAccount resolves the Instagram Business account of a page, nil
// when the page has none.
func (c *Client) GetInstagramAccount(ctx context.Context, pageID, pageToken string) (*InstagramAccount, error) {
	var out struct {
		InstagramBusinessAccount *InstagramAccount `json:"instagram_business_account"`
	}
	err := c.get(ctx, "/"+url.PathEscape(pageID), igAccountParams{
		Fields:      "instagram_business_account{id,username,profile_picture_url}",
		AccessToken: pageToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.InstagramBusinessAccount, nil
}

// PagePictureURL builds the public avatar URL of a page.
func (c *Client) PagePictureURL(pageID string) string {
	return c.baseURL + "/" + url.PathEscape(pageID) + "/picture?type=large"
}

type postID struct {
	ID string `json:"id"`
}

type pagePostParams struct {
	Message     string `url:"message"`
	Link        string `url:"link,omitempty"`
	AccessToken string `url:"access_token"`
}

// CreatePagePost publishes a text status update to a page feed.
func (c *Client) CreatePagePost(ctx context.Context, pageID, pageToken, message, link string) (string, error) {
	var out postID
	err := c.postForm(ctx, "/"+url.PathEscape(pageID)+"/feed", pagePostParams{
		Message:     message,
		Link:        link,
		AccessToken: pageToken,
	}, &out)
	return out.ID, err
}

type pagePhotoParams struct {
	URL         string `url:"url"`
	Caption     string `url:"caption,omitempty"`
	Published   string `url:"published"`
	AccessToken string `url:"access_token"`
}

// CreatePagePhotoPost publishes a single photo, fetched by Facebook from the
// given URL.
func (c *Client) CreatePagePhotoPost(ctx context.Context, pageID, pageToken, imageURL, caption string) (string, error) {
	var out postID
	err := c.postForm(ctx, "/"+url.PathEscape(pageID)+"/photos", pagePhotoParams{
		URL:         imageURL,
		Caption:     caption,
		Published:   "true",
		AccessToken: pageToken,
	}, &out)
	return out.ID, err
}

type pageVideoParams struct {
	FileURL     string `url:"file_url"`
	Description string `url:"description,omitempty"`
	AccessToken string `url:"access_token"`
}

// CreatePageVideoPost publishes a single video, fetched by Facebook from the
// given URL.
func (c *Client) CreatePageVideoPost(ctx context.Context, pageID, pageToken, videoURL, description string) (string, error) {
	var out postID
	err := c.postForm(ctx, "/"+url.PathEscape(pageID)+"/videos", pageVideoParams{
		FileURL:     videoURL,
		Description: description,
		AccessToken: pageToken,
	}, &out)
	return out.ID, err
}

// ContainerParams describes one Instagram media container. Zero fields are
// omitted from the request.
type ContainerParams struct {
	ImageURL       string `url:"image_url,omitempty"`
	VideoURL       string `url:"video_url,omitempty"`
	MediaType      string `url:"media_type,omitempty"`
	Caption        string `url:"caption,omitempty"`
	IsCarouselItem bool   `url:"is_carousel_item,omitempty"`
	Children       string `url:"children,omitempty"`
	AccessToken    string `url:"access_token"`
}

// CreateMediaContainer creates one container (single media, carousel child,
// or carousel parent) and returns its creation id.
func (c *Client) CreateMediaContainer(ctx context.Context, igAccountID string, params ContainerParams) (string, error) {
	var out postID
	err := c.postForm(ctx, "/"+url.PathEscape(igAccountID)+"/media", params, &out)
	return out.ID, err
}

type publishParams struct {
	CreationID  string `url:"creation_id"`
	AccessToken string `url:"access_token"`
}

// PublishMedia publishes a previously created container.
func (c *Client) PublishMedia(ctx context.Context, igAccountID, accessToken, creationID string) (string, error) {
	var out postID
	err := c.postForm(ctx, "/"+url.PathEscape(igAccountID)+"/media_publish", publishParams{
		CreationID:  creationID,
		AccessToken: accessToken,
	}, &out)
	return out.ID, err
}
