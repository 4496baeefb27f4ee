package repository

import (
	"context"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// IExchanger turns an authorization code into a durable token bundle and the
// set of external identities reachable with it. One implementation per
// provider. Exchangers perform outbound HTTP only; persistence belongs to
// the registry.
type IExchanger interface {
	// AuthorizationURL builds the provider consent URL carrying the signed
	// state token.
	AuthorizationURL(state string) string
	// ExchangeCode performs the token endpoint call. For providers with
	// short-lived/long-lived token pairs (Meta) the long-lived exchange is
	// included, so callers only ever see the durable token.
	ExchangeCode(ctx context.Context, code string) (model.TokenBundle, error)
	// FetchIdentities enumerates every entity the token can act as. Page
	// based providers typically return more than one.
	FetchIdentities(ctx context.Context, bundle model.TokenBundle) ([]model.Identity, error)
}
