// Package oauthstate signs and verifies the OAuth state parameter. The state
// is a self-contained HS256 token carrying the tenant, the platform, and an
// issuance window, so the authorize and callback handlers share nothing but
// the signing key and scale horizontally.
package oauthstate

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/vallemarketing/valle360-social/domain/model"
)

// DefaultTTL is the replay window for callback states.
const DefaultTTL = 10 * time.Minute

// Claims is the state payload. Nonce feeds the single-use replay guard.
type Claims struct {
	TenantID string         `json:"tid"`
	Platform model.Platform `json:"pfm"`
	jwt.StandardClaims
}

// Nonce returns the single-use identifier of this state.
func (c *Claims) Nonce() string { return c.Id }

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

func (s *Signer) Sign(tenantID string, platform model.Platform) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("oauth state signing key not configured")
	}
	now := s.now()
	claims := Claims{
		TenantID: tenantID,
		Platform: platform,
		StandardClaims: jwt.StandardClaims{
			Id:        randomNonce(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a callback state. It fails closed: anything
// that does not verify cleanly is ErrStateInvalid, and an aged-out issuance
// window is ErrStateExpired.
func (s *Signer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, model.ErrStateExpired
		}
		return nil, model.ErrStateInvalid
	}
	if !token.Valid || claims.TenantID == "" || claims.Platform == "" || claims.Id == "" {
		return nil, model.ErrStateInvalid
	}
	// Belt and braces against clock-skewed issuers: the issuance timestamp
	// itself must be inside the window.
	if claims.IssuedAt > 0 && s.now().Sub(time.Unix(claims.IssuedAt, 0)) > s.ttl {
		return nil, model.ErrStateExpired
	}
	return claims, nil
}

func randomNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
