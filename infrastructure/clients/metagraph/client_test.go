package metagraph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-social/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL:      srv.URL,
		DialogURL:    srv.URL + "/dialog/oauth",
		ClientID:     "app-id",
		ClientSecret: "app-secret",
		RedirectURI:  "https://api.example.com/auth/facebook/callback",
		HTTPClient:   srv.Client(),
	})
	return client, srv
}

func TestExchangeCodeThenLongLived(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("grant_type") == "fb_exchange_token" {
			assert.Equal(t, "short-token", q.Get("fb_exchange_token"))
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "long-token", TokenType: "bearer", ExpiresIn: 5184000})
			return
		}
		assert.Equal(t, "code-1", q.Get("code"))
		assert.Equal(t, "app-id", q.Get("client_id"))
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "short-token", TokenType: "bearer", ExpiresIn: 3600})
	})
	client, _ := newTestClient(t, mux)

	short, err := client.ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "short-token", short.AccessToken)

	long, err := client.ExchangeLongLived(context.Background(), short.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "long-token", long.AccessToken)
	assert.EqualValues(t, 5184000, long.ExpiresIn)
}

func TestFacebookExchangerFetchIdentitiesYieldsPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-token", r.URL.Query().Get("access_token"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []Page{
				{ID: "page-1", Name: "Page One", AccessToken: "page-token-1"},
				{ID: "page-2", Name: "Page Two", AccessToken: "page-token-2"},
			},
		})
	})
	client, _ := newTestClient(t, mux)

	identities, err := NewFacebookExchanger(client).FetchIdentities(context.Background(), model.TokenBundle{AccessToken: "user-token"})
	require.NoError(t, err)
	require.Len(t, identities, 2)
	assert.Equal(t, "page-1", identities[0].ExternalID)
	require.NotNil(t, identities[0].Token)
	assert.Equal(t, "page-token-1", identities[0].Token.AccessToken)
	assert.Nil(t, identities[0].Token.ExpiresAt)
}

func TestInstagramExchangerSkipsPagesWithoutBusinessAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []Page{
				{ID: "page-1", Name: "No IG", AccessToken: "pt-1"},
				{ID: "page-2", Name: "Has IG", AccessToken: "pt-2"},
			},
		})
	})
	mux.HandleFunc("/page-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	mux.HandleFunc("/page-2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"instagram_business_account": InstagramAccount{ID: "ig-9", Username: "brand"},
		})
	})
	client, _ := newTestClient(t, mux)

	identities, err := NewInstagramExchanger(client).FetchIdentities(context.Background(), model.TokenBundle{AccessToken: "user-token"})
	require.NoError(t, err)
	require.Len(t, identities, 1)
	assert.Equal(t, "ig-9", identities[0].ExternalID)
	assert.Equal(t, "brand", identities[0].DisplayName)
	assert.Nil(t, identities[0].Token)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListPages(context.Background(), "bad-token")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid OAuth access token", apiErr.Message)
}

func TestOKResponseWithErrorPayloadBecomesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported request"}}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListPages(context.Background(), "token")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unsupported request", apiErr.Message)
}

func TestDialogAuthURLCarriesState(t *testing.T) {
	client := NewClient(Config{ClientID: "app-id", RedirectURI: "https://cb"})
	u := client.dialogAuthURL("signed-state", facebookScopes)
	assert.Contains(t, u, DefaultDialogURL)
	assert.Contains(t, u, "state=signed-state")
	assert.Contains(t, u, "client_id=app-id")
	assert.Contains(t, u, "response_type=code")
}
