package model

import "time"

// Account status values.
const (
	AccountStatusActive  = "active"
	AccountStatusRevoked = "revoked"
	AccountStatusExpired = "expired"
)

// ConnectedAccount binds one external social identity to one tenant.
// Unique on (tenant_id, platform, external_account_id); reconnecting the same
// identity updates the row instead of duplicating it.
type ConnectedAccount struct {
	ID                int64     `json:"id"`
	TenantID          string    `json:"tenant_id"`
	Platform          Platform  `json:"platform"`
	ExternalAccountID string    `json:"external_account_id"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AccountSecret holds the live token material for exactly one ConnectedAccount.
// Kept in its own table so account listings never touch token bytes.
type AccountSecret struct {
	AccountID   int64      `json:"account_id"`
	AccessToken string     `json:"-"`
	TokenType   string     `json:"token_type"`
	Scopes      string     `json:"scopes"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TokenBundle is what a credential exchange produces: the durable token plus
// its metadata. For Meta providers AccessToken is already the long-lived one.
type TokenBundle struct {
	AccessToken string
	TokenType   string
	Scopes      string
	ExpiresAt   *time.Time
}

// Identity is one external entity reachable through an authorization: a
// Facebook Page, an Instagram Business account, a LinkedIn member, a Google
// account. Page-based providers yield one Identity per page, each with its
// own entity-scoped token.
type Identity struct {
	ExternalID  string
	DisplayName string
	AvatarURL   string
	// Token overrides the user-level bundle when the entity carries its own
	// credential (Facebook page tokens). Nil means use the bundle as-is.
	Token *TokenBundle
}
